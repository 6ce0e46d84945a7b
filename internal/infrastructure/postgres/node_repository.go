package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/virtualcv-api/internal/domain"
	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
	"github.com/jhoicas/virtualcv-api/internal/domain/repository"
)

var _ repository.NodeRepository = (*NodeRepo)(nil)

const nodeColumns = `id, type, parent_id, label, description, attributes, position_x, position_y, created_at, updated_at`

// NodeRepo implementación del puerto NodeRepository sobre PostgreSQL
// (usable con pool o tx vía Querier). Attributes se persiste como jsonb.
type NodeRepo struct {
	q Querier
}

// NewNodeRepository construye el adaptador de persistencia. Pasar pool o tx.
func NewNodeRepository(q Querier) *NodeRepo {
	return &NodeRepo{q: q}
}

// Create persiste un nodo nuevo. created_at/updated_at los asigna la DB.
func (r *NodeRepo) Create(ctx context.Context, node *entity.CvNode) error {
	attrs, err := marshalAttributes(node.Attributes)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO cv_node (id, type, parent_id, label, description, attributes, position_x, position_y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query,
		node.ID, node.Type, nullIfEmpty(node.ParentID), node.Label,
		nullIfEmpty(node.Description), attrs, node.PositionX, node.PositionY,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cv_node: %w", err)
	}
	return nil
}

// GetByID obtiene un nodo por id; (nil, nil) si no existe.
func (r *NodeRepo) GetByID(ctx context.Context, id string) (*entity.CvNode, error) {
	row := r.q.QueryRow(ctx, `SELECT `+nodeColumns+` FROM cv_node WHERE id = $1`, id)
	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cv_node: %w", err)
	}
	return node, nil
}

// ListAll devuelve todos los nodos en orden de creación.
func (r *NodeRepo) ListAll(ctx context.Context) ([]*entity.CvNode, error) {
	return r.list(ctx, `SELECT `+nodeColumns+` FROM cv_node ORDER BY created_at`)
}

// ListByParent devuelve los hijos directos de un nodo.
func (r *NodeRepo) ListByParent(ctx context.Context, parentID string) ([]*entity.CvNode, error) {
	return r.list(ctx,
		`SELECT `+nodeColumns+` FROM cv_node WHERE parent_id = $1 ORDER BY created_at`, parentID)
}

// ListRoots devuelve los nodos sin padre.
func (r *NodeRepo) ListRoots(ctx context.Context) ([]*entity.CvNode, error) {
	return r.list(ctx,
		`SELECT `+nodeColumns+` FROM cv_node WHERE parent_id IS NULL ORDER BY created_at`)
}

// ListByType devuelve los nodos de un tipo dado.
func (r *NodeRepo) ListByType(ctx context.Context, t entity.NodeType) ([]*entity.CvNode, error) {
	return r.list(ctx,
		`SELECT `+nodeColumns+` FROM cv_node WHERE type = $1 ORDER BY created_at`, t)
}

// Search busca substring case-insensitive en label o description. Los
// metacaracteres de LIKE se escapan: "a_c" o "100%" se buscan literales,
// igual que en el adaptador en memoria.
func (r *NodeRepo) Search(ctx context.Context, query string) ([]*entity.CvNode, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.list(ctx, `
		SELECT `+nodeColumns+` FROM cv_node
		WHERE label ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY created_at`, pattern)
}

// Update sobrescribe los campos mutables. type es inmutable y no se toca;
// updated_at lo asigna la DB.
func (r *NodeRepo) Update(ctx context.Context, node *entity.CvNode) error {
	attrs, err := marshalAttributes(node.Attributes)
	if err != nil {
		return err
	}
	query := `
		UPDATE cv_node
		SET parent_id = $2, label = $3, description = $4, attributes = $5,
		    position_x = $6, position_y = $7, updated_at = now()
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query,
		node.ID, nullIfEmpty(node.ParentID), node.Label, nullIfEmpty(node.Description),
		attrs, node.PositionX, node.PositionY,
	)
	if err != nil {
		return fmt.Errorf("update cv_node: %w", err)
	}
	return nil
}

// Delete elimina un solo nodo (la cascada la orquesta el caso de uso).
func (r *NodeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cv_node WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cv_node: %w", err)
	}
	return nil
}

func (r *NodeRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CvNode, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cv_node: %w", err)
	}
	defer rows.Close()

	var list []*entity.CvNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cv_node: %w", err)
		}
		list = append(list, node)
	}
	return list, rows.Err()
}

func scanNode(row pgx.Row) (*entity.CvNode, error) {
	var (
		n        entity.CvNode
		parentID *string
		desc     *string
		attrs    []byte
	)
	err := row.Scan(&n.ID, &n.Type, &parentID, &n.Label, &desc, &attrs,
		&n.PositionX, &n.PositionY, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		n.ParentID = *parentID
	}
	if desc != nil {
		n.Description = *desc
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
			return nil, fmt.Errorf("attributes jsonb: %w", err)
		}
	}
	return &n, nil
}

// marshalAttributes serializa el mapa a jsonb; nil se persiste como NULL
// para distinguir "sin datos extra" de un objeto vacío.
func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return nil, nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	return b, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutraliza los comodines de LIKE/ILIKE para que la query del
// usuario matchee como texto literal.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
