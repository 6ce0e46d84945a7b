package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/virtualcv-api/internal/application/command"
	"github.com/jhoicas/virtualcv-api/internal/application/dto"
	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
	"github.com/jhoicas/virtualcv-api/internal/domain"
	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
	"github.com/jhoicas/virtualcv-api/internal/infrastructure/memory"
)

// newService arma el servicio sobre el store en memoria.
func newService() (*usecase.NodeUseCase, *memory.NodeRepo) {
	repo := memory.NewNodeRepository()
	return usecase.NewNodeUseCase(repo, memory.NewTxRunner(repo), nil), repo
}

func mustCreate(t *testing.T, uc *usecase.NodeUseCase, cmd command.CreateNodeCommand) *dto.NodeResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), cmd)
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

func itemCmd(id, parentID, label string) *command.CreateItemCommand {
	return &command.CreateItemCommand{
		CreateBase: command.CreateBase{ID: id, ParentID: parentID, Label: label},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: crear un item con campos específicos → los atributos quedan en la
// bolsa y el nodo se recupera por id.
func TestCreate_ItemConAtributos(t *testing.T) {
	uc, _ := newService()

	out := mustCreate(t, uc, &command.CreateItemCommand{
		CreateBase: command.CreateBase{ID: "exp-1", Label: "Backend Engineer"},
		Company:    "Acme",
		DateRange:  "2020 - 2023",
		Highlights: []string{"migración a Go", "API pública"},
	})

	assert.Equal(t, entity.TypeItem, out.Type)
	assert.Equal(t, "Acme", out.Attributes["company"])
	assert.Equal(t, "2020 - 2023", out.Attributes["dateRange"])

	got, err := uc.GetNode(context.Background(), "exp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Backend Engineer", got.Label)
}

// Caso 2: los campos ausentes del comando no aparecen como claves null.
// Un skill sin ningún campo específico queda sin mapa de atributos.
func TestCreate_SinAtributosNoGuardaMapaVacio(t *testing.T) {
	uc, _ := newService()

	out := mustCreate(t, uc, &command.CreateSkillCommand{
		CreateBase: command.CreateBase{ID: "sk-1", Label: "Go"},
	})
	assert.Nil(t, out.Attributes)
}

// Caso 3: comando inválido → ValidationError con los campos faltantes y el
// store queda intacto (la validación ocurre antes de persistir).
func TestCreate_InvalidoNoTocaElStore(t *testing.T) {
	uc, repo := newService()

	_, err := uc.Create(context.Background(), &command.CreateProfileCommand{
		CreateBase: command.CreateBase{ID: "p-1", Label: "Perfil"},
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{"name", "title"}, vErr.Fields)

	nodes, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

// Caso 4: id duplicado → ErrDuplicate.
func TestCreate_IDDuplicado(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, itemCmd("exp-1", "", "Uno"))

	_, err := uc.Create(context.Background(), itemCmd("exp-1", "", "Dos"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Caso 5: parentId que no resuelve se descarta en silencio → el nodo se crea
// como raíz, sin error (resolve-or-ignore).
func TestCreate_PadreInexistenteSeIgnora(t *testing.T) {
	uc, _ := newService()

	out := mustCreate(t, uc, itemCmd("exp-1", "fantasma", "Colgado"))
	assert.Empty(t, out.ParentID)
}

// Caso 6: parentId que sí resuelve queda enlazado y aparece en children.
func TestCreate_PadreExistenteEnlaza(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, &command.CreateCategoryCommand{
		CreateBase: command.CreateBase{ID: "cat-1", Label: "Experiencia"},
		SectionID:  "experience",
	})

	out := mustCreate(t, uc, itemCmd("exp-1", "cat-1", "Backend"))
	assert.Equal(t, "cat-1", out.ParentID)

	children, err := uc.GetChildren(context.Background(), "cat-1")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "exp-1", children[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización por merge
// ──────────────────────────────────────────────────────────────────────────────

// Caso 7: el merge de atributos es clave sobre clave. Un nodo con
// {company, isDraft} parcheado con {isDraft: false} conserva company.
func TestUpdate_MergeDeAtributos(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, &command.CreateItemCommand{
		CreateBase: command.CreateBase{ID: "exp-1", Label: "Backend"},
		Company:    "Acme",
	})

	_, err := uc.Update(context.Background(), command.UpdateNodeCommand{
		ID:         "exp-1",
		Attributes: map[string]any{"isDraft": true},
	})
	require.NoError(t, err)

	out, err := uc.Update(context.Background(), command.UpdateNodeCommand{
		ID:         "exp-1",
		Attributes: map[string]any{"isDraft": false},
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "Acme", out.Attributes["company"], "las claves no mencionadas sobreviven")
	assert.Equal(t, false, out.Attributes["isDraft"])
}

// Caso 8: los campos ausentes (nil) no se tocan; los presentes sobrescriben.
func TestUpdate_CamposAusentesNoSeTocan(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, &command.CreateItemCommand{
		CreateBase: command.CreateBase{ID: "exp-1", Label: "Original", Description: "desc"},
	})

	label := "Nuevo label"
	out, err := uc.Update(context.Background(), command.UpdateNodeCommand{
		ID:    "exp-1",
		Label: &label,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Nuevo label", out.Label)
	assert.Equal(t, "desc", out.Description, "description no venía en el parche")
}

// Caso 9: actualizar un id inexistente → (nil, nil), el handler lo traduce a 404.
func TestUpdate_IDInexistente(t *testing.T) {
	uc, _ := newService()
	out, err := uc.Update(context.Background(), command.UpdateNodeCommand{ID: "fantasma"})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// Caso 10: reparent válido mueve el nodo; reparent hacia un descendiente
// propio se ignora en silencio (el padre actual queda intacto).
func TestUpdate_ReparentConGuardaDeCiclo(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, itemCmd("a", "", "A"))
	mustCreate(t, uc, itemCmd("b", "a", "B"))
	mustCreate(t, uc, itemCmd("c", "b", "C"))

	// Mover c bajo a: válido.
	newParent := "a"
	out, err := uc.Update(context.Background(), command.UpdateNodeCommand{ID: "c", ParentID: &newParent})
	require.NoError(t, err)
	assert.Equal(t, "a", out.ParentID)

	// Mover a bajo c: crearía un ciclo → se ignora.
	cycleParent := "c"
	out, err = uc.Update(context.Background(), command.UpdateNodeCommand{ID: "a", ParentID: &cycleParent})
	require.NoError(t, err)
	assert.Empty(t, out.ParentID, "a debe seguir siendo raíz")

	// Mover a bajo sí mismo: también ignorado.
	self := "a"
	out, err = uc.Update(context.Background(), command.UpdateNodeCommand{ID: "a", ParentID: &self})
	require.NoError(t, err)
	assert.Empty(t, out.ParentID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado en cascada
// ──────────────────────────────────────────────────────────────────────────────

// Caso 11: borrar la raíz elimina todo el subárbol; los hermanos sobreviven.
func TestDelete_CascadaCompleta(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, itemCmd("root", "", "Raíz"))
	mustCreate(t, uc, itemCmd("a", "root", "A"))
	mustCreate(t, uc, itemCmd("b", "a", "B"))
	mustCreate(t, uc, itemCmd("otro", "", "Independiente"))

	removed, err := uc.Delete(context.Background(), "root")
	require.NoError(t, err)
	assert.True(t, removed)

	doc, err := uc.GetAllNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "otro", doc.Nodes[0].ID)
}

// Caso 12: borrar un id inexistente → false sin error (el handler responde 404).
func TestDelete_IDInexistente(t *testing.T) {
	uc, _ := newService()
	removed, err := uc.Delete(context.Background(), "fantasma")
	require.NoError(t, err)
	assert.False(t, removed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

// Caso 13: la búsqueda no distingue mayúsculas y recorta espacios de la query.
func TestSearch_CaseInsensitive(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, itemCmd("exp-1", "", "Ingeniería de Software"))
	mustCreate(t, uc, itemCmd("exp-2", "", "Ventas"))

	out, err := uc.Search(context.Background(), "  INGENIERÍA ")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "exp-1", out[0].ID)
}

// Caso 13b: la búsqueda también matchea en description, no solo en label.
func TestSearch_PorDescription(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, &command.CreateItemCommand{
		CreateBase: command.CreateBase{
			ID:          "exp-1",
			Label:       "Proyecto X",
			Description: "Backend escrito en Java",
		},
	})
	mustCreate(t, uc, itemCmd("exp-2", "", "Ventas"))

	out, err := uc.Search(context.Background(), "JAVA")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "exp-1", out[0].ID)
}

// Caso 14: GetAllNodes conserva el orden de creación.
func TestGetAllNodes_OrdenDeCreacion(t *testing.T) {
	uc, _ := newService()
	mustCreate(t, uc, itemCmd("n1", "", "Uno"))
	mustCreate(t, uc, itemCmd("n2", "", "Dos"))
	mustCreate(t, uc, itemCmd("n3", "", "Tres"))

	doc, err := uc.GetAllNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "n1", doc.Nodes[0].ID)
	assert.Equal(t, "n3", doc.Nodes[2].ID)
}

// Caso 15: GetNode con id inexistente → (nil, nil).
func TestGetNode_Inexistente(t *testing.T) {
	uc, _ := newService()
	out, err := uc.GetNode(context.Background(), "fantasma")
	require.NoError(t, err)
	assert.Nil(t, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cache del documento
// ──────────────────────────────────────────────────────────────────────────────

type spyCache struct {
	doc         *dto.CvDataResponse
	hits, sets  int
	invalidates int
}

func (s *spyCache) Get(context.Context) (*dto.CvDataResponse, bool) {
	if s.doc != nil {
		s.hits++
		return s.doc, true
	}
	return nil, false
}
func (s *spyCache) Set(_ context.Context, doc *dto.CvDataResponse) { s.doc = doc; s.sets++ }
func (s *spyCache) Invalidate(context.Context)                     { s.doc = nil; s.invalidates++ }

// Caso 16: la segunda lectura sale del cache; una escritura lo invalida.
func TestGetAllNodes_UsaEInvalidaCache(t *testing.T) {
	repo := memory.NewNodeRepository()
	cache := &spyCache{}
	uc := usecase.NewNodeUseCase(repo, memory.NewTxRunner(repo), cache)

	mustCreate(t, uc, itemCmd("n1", "", "Uno"))
	assert.Equal(t, 1, cache.invalidates, "crear invalida el cache")

	_, err := uc.GetAllNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	_, err = uc.GetAllNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "la segunda lectura debe salir del cache")

	removed, err := uc.Delete(context.Background(), "n1")
	require.NoError(t, err)
	require.True(t, removed)
	assert.Equal(t, 2, cache.invalidates, "borrar invalida el cache")
}
