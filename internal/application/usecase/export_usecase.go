package usecase

import (
	"context"

	"github.com/jhoicas/virtualcv-api/internal/domain"
	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
	"github.com/jhoicas/virtualcv-api/internal/domain/repository"
)

// TreeNode nodo del árbol resuelto en memoria para exportación. Children
// respeta el orden de creación.
type TreeNode struct {
	Node     *entity.CvNode
	Children []*TreeNode
}

// CVPDFGenerator puerto del generador de PDF (implementado en infrastructure
// con Maroto). profile puede ser nil si el CV aún no tiene nodo de perfil.
type CVPDFGenerator interface {
	GenerateCVPDF(ctx context.Context, profile *entity.CvNode, sections []*TreeNode) ([]byte, error)
}

// ExportUseCase arma el árbol del CV y delega la representación gráfica.
type ExportUseCase struct {
	repo repository.NodeRepository
	gen  CVPDFGenerator
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(repo repository.NodeRepository, gen CVPDFGenerator) *ExportUseCase {
	return &ExportUseCase{repo: repo, gen: gen}
}

// GeneratePDF resuelve el árbol completo y genera el PDF del CV.
// Devuelve ErrNotFound si no hay ningún nodo que exportar.
func (uc *ExportUseCase) GeneratePDF(ctx context.Context) ([]byte, error) {
	nodes, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, domain.ErrNotFound
	}

	profile, sections := BuildTree(nodes)
	return uc.gen.GenerateCVPDF(ctx, profile, sections)
}

// BuildTree resuelve las referencias parentId en memoria y separa el nodo de
// perfil de las secciones de primer nivel. Un parentId colgante (padre ya no
// presente) convierte al nodo en raíz, coherente con la política
// resolve-or-ignore del servicio.
func BuildTree(nodes []*entity.CvNode) (profile *entity.CvNode, sections []*TreeNode) {
	byID := make(map[string]*TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &TreeNode{Node: n}
	}

	var roots []*TreeNode
	for _, n := range nodes {
		tn := byID[n.ID]
		if n.ParentID != "" {
			if parent, ok := byID[n.ParentID]; ok {
				parent.Children = append(parent.Children, tn)
				continue
			}
		}
		roots = append(roots, tn)
	}

	for _, r := range roots {
		if r.Node.Type == entity.TypeProfile && profile == nil {
			profile = r.Node
			sections = append(sections, r.Children...)
			continue
		}
		sections = append(sections, r)
	}
	return profile, sections
}
