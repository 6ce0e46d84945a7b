package dto

import "github.com/jhoicas/virtualcv-api/internal/domain/entity"

// NodeResponse representación pública de un nodo del CV. Los timestamps son
// internos del store y no se exponen.
type NodeResponse struct {
	ID          string          `json:"id"`
	Type        entity.NodeType `json:"type"`
	ParentID    string          `json:"parentId,omitempty"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Attributes  map[string]any  `json:"attributes,omitempty"`
	PositionX   *int            `json:"positionX,omitempty"`
	PositionY   *int            `json:"positionY,omitempty"`
}

// CvDataResponse documento completo del CV (todos los nodos activos).
type CvDataResponse struct {
	Nodes []NodeResponse `json:"nodes"`
}

// FromNode convierte la entidad a su DTO público.
func FromNode(n *entity.CvNode) *NodeResponse {
	if n == nil {
		return nil
	}
	return &NodeResponse{
		ID:          n.ID,
		Type:        n.Type,
		ParentID:    n.ParentID,
		Label:       n.Label,
		Description: n.Description,
		Attributes:  n.Attributes,
		PositionX:   n.PositionX,
		PositionY:   n.PositionY,
	}
}

// FromNodes convierte una lista de entidades preservando el orden.
func FromNodes(nodes []*entity.CvNode) []NodeResponse {
	out := make([]NodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, *FromNode(n))
	}
	return out
}
