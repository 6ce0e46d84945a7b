package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/virtualcv-api/internal/application/command"
	"github.com/jhoicas/virtualcv-api/internal/application/dto"
	"github.com/jhoicas/virtualcv-api/internal/domain"
	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
	"github.com/jhoicas/virtualcv-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con un repositorio atado a una transacción.
// Lo implementa postgres.TxRunner; el borrado en cascada es la única
// operación multi-paso que lo necesita.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.NodeRepository) error) error
}

// DocumentCache cachea el documento completo del CV para GET /cv.
// Implementación opcional (redis); un fallo de cache nunca rompe la petición.
type DocumentCache interface {
	Get(ctx context.Context) (*dto.CvDataResponse, bool)
	Set(ctx context.Context, doc *dto.CvDataResponse)
	Invalidate(ctx context.Context)
}

// NodeUseCase servicio de jerarquía del CV: consultas, creación polimórfica,
// actualización por merge y borrado en cascada. cache puede ser nil.
type NodeUseCase struct {
	repo  repository.NodeRepository
	tx    TxRunner
	cache DocumentCache
}

// NewNodeUseCase construye el servicio.
func NewNodeUseCase(repo repository.NodeRepository, tx TxRunner, cache DocumentCache) *NodeUseCase {
	return &NodeUseCase{repo: repo, tx: tx, cache: cache}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// GetAllNodes devuelve el documento completo del CV en orden de creación.
func (uc *NodeUseCase) GetAllNodes(ctx context.Context) (*dto.CvDataResponse, error) {
	if uc.cache != nil {
		if doc, ok := uc.cache.Get(ctx); ok {
			return doc, nil
		}
	}
	nodes, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	doc := &dto.CvDataResponse{Nodes: dto.FromNodes(nodes)}
	if uc.cache != nil {
		uc.cache.Set(ctx, doc)
	}
	return doc, nil
}

// GetNode devuelve un nodo por id, o nil si no existe.
func (uc *NodeUseCase) GetNode(ctx context.Context, id string) (*dto.NodeResponse, error) {
	node, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromNode(node), nil
}

// GetChildren devuelve los hijos directos de un nodo.
func (uc *NodeUseCase) GetChildren(ctx context.Context, parentID string) ([]dto.NodeResponse, error) {
	nodes, err := uc.repo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return dto.FromNodes(nodes), nil
}

// Search busca por substring (case-insensitive) en label o description.
func (uc *NodeUseCase) Search(ctx context.Context, query string) ([]dto.NodeResponse, error) {
	nodes, err := uc.repo.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return dto.FromNodes(nodes), nil
}

// ── Comandos ──────────────────────────────────────────────────────────────────

// Create valida el comando, arma el nodo según la variante y lo persiste.
// La validación ocurre antes de cualquier acceso al store. Un parentId que
// no resuelve se descarta en silencio (el nodo queda sin padre).
func (uc *NodeUseCase) Create(ctx context.Context, cmd command.CreateNodeCommand) (*dto.NodeResponse, error) {
	if missing := cmd.Validate(); len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	base := cmd.Base()
	node := &entity.CvNode{
		ID:          base.ID,
		Label:       base.Label,
		Description: base.Description,
		PositionX:   base.PositionX,
		PositionY:   base.PositionY,
	}

	// Tipo y atributos específicos de la variante. El switch es el punto de
	// dispatch cerrado: una variante sin case es un bug de programación.
	attrs := map[string]any{}
	switch c := cmd.(type) {
	case *command.CreateProfileCommand:
		node.Type = entity.TypeProfile
		putIfPresent(attrs, "name", c.Name)
		putIfPresent(attrs, "title", c.Title)
		putIfPresent(attrs, "subtitle", c.Subtitle)
		putIfPresent(attrs, "experience", c.Experience)
		putIfPresent(attrs, "email", c.Email)
		putIfPresent(attrs, "location", c.Location)
		putIfPresent(attrs, "photoUrl", c.PhotoURL)
	case *command.CreateCategoryCommand:
		node.Type = entity.TypeCategory
		putIfPresent(attrs, "sectionId", c.SectionID)
	case *command.CreateItemCommand:
		node.Type = entity.TypeItem
		putIfPresent(attrs, "company", c.Company)
		putIfPresent(attrs, "dateRange", c.DateRange)
		putIfPresent(attrs, "location", c.Location)
		putListIfPresent(attrs, "highlights", c.Highlights)
		putListIfPresent(attrs, "technologies", c.Technologies)
	case *command.CreateSkillGroupCommand:
		node.Type = entity.TypeSkillGroup
		putIfPresent(attrs, "proficiencyLevel", c.ProficiencyLevel)
	case *command.CreateSkillCommand:
		node.Type = entity.TypeSkill
		putIfPresent(attrs, "proficiencyLevel", c.ProficiencyLevel)
		if c.YearsOfExperience != nil {
			attrs["yearsOfExperience"] = *c.YearsOfExperience
		}
	default:
		panic(fmt.Sprintf("comando de creación no manejado: %T", cmd))
	}
	if len(attrs) > 0 {
		node.Attributes = attrs
	}

	if base.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, base.ParentID)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			node.ParentID = base.ParentID
		}
	}

	if err := uc.repo.Create(ctx, node); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return dto.FromNode(node), nil
}

// Update aplica un parche parcial: los campos presentes sobrescriben, los
// ausentes no se tocan. Attributes se mergea clave sobre clave (las claves
// existentes no mencionadas sobreviven). Devuelve nil si el id no resuelve.
func (uc *NodeUseCase) Update(ctx context.Context, cmd command.UpdateNodeCommand) (*dto.NodeResponse, error) {
	if missing := cmd.Validate(); len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	node, err := uc.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}

	if cmd.Label != nil {
		node.Label = *cmd.Label
	}
	if cmd.Description != nil {
		node.Description = *cmd.Description
	}
	if cmd.Attributes != nil {
		if node.Attributes == nil {
			node.Attributes = make(map[string]any, len(cmd.Attributes))
		}
		for k, v := range cmd.Attributes {
			node.Attributes[k] = v
		}
	}
	if cmd.PositionX != nil {
		node.PositionX = cmd.PositionX
	}
	if cmd.PositionY != nil {
		node.PositionY = cmd.PositionY
	}
	if cmd.ParentID != nil {
		if err := uc.reparent(ctx, node, *cmd.ParentID); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.Update(ctx, node); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return dto.FromNode(node), nil
}

// reparent aplica la política resolve-or-ignore: si el nuevo padre no existe
// o crearía un ciclo (el nodo quedaría bajo sí mismo), el padre actual se
// deja intacto sin reportar error.
func (uc *NodeUseCase) reparent(ctx context.Context, node *entity.CvNode, newParentID string) error {
	if newParentID == "" || newParentID == node.ID {
		return nil
	}
	parent, err := uc.repo.GetByID(ctx, newParentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}
	cycle, err := uc.isDescendant(ctx, node.ID, parent)
	if err != nil {
		return err
	}
	if cycle {
		return nil
	}
	node.ParentID = newParentID
	return nil
}

// isDescendant recorre los ancestros de candidate buscando ancestorID.
func (uc *NodeUseCase) isDescendant(ctx context.Context, ancestorID string, candidate *entity.CvNode) (bool, error) {
	seen := map[string]struct{}{}
	for cur := candidate; cur != nil && cur.ParentID != ""; {
		if cur.ParentID == ancestorID {
			return true, nil
		}
		if _, ok := seen[cur.ParentID]; ok {
			// Ciclo preexistente en el store: cortar el recorrido.
			return true, nil
		}
		seen[cur.ParentID] = struct{}{}
		next, err := uc.repo.GetByID(ctx, cur.ParentID)
		if err != nil {
			return false, err
		}
		cur = next
	}
	return false, nil
}

// Delete elimina el nodo y todo su subárbol (hard delete en cascada).
// El recorrido es post-order (primero los hijos) y toda la cascada corre en
// una sola transacción: un lector concurrente nunca ve un subárbol a medias.
// Devuelve false si el id no resuelve a un nodo existente.
func (uc *NodeUseCase) Delete(ctx context.Context, id string) (bool, error) {
	node, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if node == nil {
		return false, nil
	}
	err = uc.tx.Run(ctx, func(repo repository.NodeRepository) error {
		return deleteSubtree(ctx, repo, id)
	})
	if err != nil {
		return false, err
	}
	uc.invalidate(ctx)
	return true, nil
}

func deleteSubtree(ctx context.Context, repo repository.NodeRepository, id string) error {
	children, err := repo.ListByParent(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := deleteSubtree(ctx, repo, child.ID); err != nil {
			return err
		}
	}
	return repo.Delete(ctx, id)
}

func (uc *NodeUseCase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}

// putIfPresent agrega la clave solo si el valor no está vacío: un campo
// ausente en el comando jamás se guarda como null explícito.
func putIfPresent(attrs map[string]any, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}

func putListIfPresent(attrs map[string]any, key string, values []string) {
	if values != nil {
		attrs[key] = values
	}
}
