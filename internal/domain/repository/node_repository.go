package repository

import (
	"context"

	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
)

// NodeRepository define el puerto de persistencia para CvNode (DIP).
// La implementación vive en infrastructure. Convención: los Get devuelven
// (nil, nil) cuando el nodo no existe; los listados respetan el orden de
// creación.
type NodeRepository interface {
	Create(ctx context.Context, node *entity.CvNode) error
	GetByID(ctx context.Context, id string) (*entity.CvNode, error)
	ListAll(ctx context.Context) ([]*entity.CvNode, error)
	ListByParent(ctx context.Context, parentID string) ([]*entity.CvNode, error)
	ListRoots(ctx context.Context) ([]*entity.CvNode, error)
	ListByType(ctx context.Context, t entity.NodeType) ([]*entity.CvNode, error)

	// Search busca por substring (case-insensitive) en label o description.
	Search(ctx context.Context, query string) ([]*entity.CvNode, error)

	Update(ctx context.Context, node *entity.CvNode) error

	// Delete elimina un solo nodo. El borrado en cascada lo orquesta el
	// caso de uso (post-order, dentro de una transacción del TxRunner).
	Delete(ctx context.Context, id string) error
}
