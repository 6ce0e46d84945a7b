// Package memory implementa el puerto NodeRepository en memoria. Favorece la
// claridad sobre el rendimiento: es el store de los tests de servicio y
// handlers, y sirve para correr la API sin PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/virtualcv-api/internal/domain"
	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
	"github.com/jhoicas/virtualcv-api/internal/domain/repository"
	"github.com/jhoicas/virtualcv-api/pkg/textutil"
)

var _ repository.NodeRepository = (*NodeRepo)(nil)

// NodeRepo store en memoria. El orden de inserción se conserva para imitar
// el ORDER BY created_at del adaptador PostgreSQL.
type NodeRepo struct {
	mu    sync.RWMutex
	nodes map[string]*entity.CvNode
	order []string
}

// NewNodeRepository construye el store vacío.
func NewNodeRepository() *NodeRepo {
	return &NodeRepo{nodes: make(map[string]*entity.CvNode)}
}

// Create persiste una copia del nodo y asigna los timestamps.
func (r *NodeRepo) Create(_ context.Context, node *entity.CvNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[node.ID]; exists {
		return domain.ErrDuplicate
	}
	now := time.Now()
	stored := node.Clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nodes[node.ID] = stored
	r.order = append(r.order, node.ID)
	node.CreatedAt = now
	node.UpdatedAt = now
	return nil
}

// GetByID devuelve una copia del nodo, o (nil, nil) si no existe.
func (r *NodeRepo) GetByID(_ context.Context, id string) (*entity.CvNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[id].Clone(), nil
}

// ListAll devuelve todos los nodos en orden de creación.
func (r *NodeRepo) ListAll(_ context.Context) ([]*entity.CvNode, error) {
	return r.collect(func(*entity.CvNode) bool { return true }), nil
}

// ListByParent devuelve los hijos directos de un nodo.
func (r *NodeRepo) ListByParent(_ context.Context, parentID string) ([]*entity.CvNode, error) {
	return r.collect(func(n *entity.CvNode) bool { return n.ParentID == parentID }), nil
}

// ListRoots devuelve los nodos sin padre.
func (r *NodeRepo) ListRoots(_ context.Context) ([]*entity.CvNode, error) {
	return r.collect(func(n *entity.CvNode) bool { return n.ParentID == "" }), nil
}

// ListByType devuelve los nodos de un tipo dado.
func (r *NodeRepo) ListByType(_ context.Context, t entity.NodeType) ([]*entity.CvNode, error) {
	return r.collect(func(n *entity.CvNode) bool { return n.Type == t }), nil
}

// Search busca substring en label o description, sin distinguir mayúsculas
// ni acentos (folding de pkg/textutil).
func (r *NodeRepo) Search(_ context.Context, query string) ([]*entity.CvNode, error) {
	q := textutil.Fold(query)
	return r.collect(func(n *entity.CvNode) bool {
		return textutil.ContainsFold(n.Label, q) || textutil.ContainsFold(n.Description, q)
	}), nil
}

// Update sobrescribe el nodo existente conservando created_at.
func (r *NodeRepo) Update(_ context.Context, node *entity.CvNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.nodes[node.ID]
	if !exists {
		return domain.ErrNotFound
	}
	stored := node.Clone()
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now()
	r.nodes[node.ID] = stored
	return nil
}

// Delete elimina un solo nodo; eliminar un id inexistente es un no-op.
func (r *NodeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[id]; !exists {
		return nil
	}
	delete(r.nodes, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *NodeRepo) collect(match func(*entity.CvNode) bool) []*entity.CvNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.CvNode
	for _, id := range r.order {
		if n := r.nodes[id]; match(n) {
			list = append(list, n.Clone())
		}
	}
	return list
}

// TxRunner runner trivial para el store en memoria: ejecuta el callback con
// el mismo repositorio, sin atomicidad real. Suficiente para los tests.
type TxRunner struct {
	repo *NodeRepo
}

// NewTxRunner construye el runner.
func NewTxRunner(repo *NodeRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

// Run ejecuta fn con el repositorio en memoria.
func (r *TxRunner) Run(_ context.Context, fn func(repo repository.NodeRepository) error) error {
	return fn(r.repo)
}
