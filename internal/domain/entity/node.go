package entity

import "time"

// NodeType tipo de nodo del árbol del CV. Conjunto cerrado: agregar un tipo
// nuevo exige tocar el dispatch del servicio (el switch hace panic ante un
// comando no manejado) y el CHECK de la migración.
type NodeType string

const (
	TypeProfile    NodeType = "PROFILE"
	TypeCategory   NodeType = "CATEGORY"
	TypeItem       NodeType = "ITEM"
	TypeSkillGroup NodeType = "SKILL_GROUP"
	TypeSkill      NodeType = "SKILL"
)

// CvNode nodo del CV jerárquico (perfil → categorías → items/grupos → skills).
// El ID lo asigna el llamador y es inmutable, igual que Type. ParentID vacío
// significa nodo raíz. Attributes es la bolsa abierta de campos específicos
// del tipo (company, highlights, proficiencyLevel...); nil significa "sin
// datos extra", nunca se persiste un mapa vacío al crear.
type CvNode struct {
	ID          string
	Type        NodeType
	ParentID    string
	Label       string
	Description string
	Attributes  map[string]any
	PositionX   *int
	PositionY   *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone copia profunda del nodo (el mapa de atributos no se comparte).
func (n *CvNode) Clone() *CvNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Attributes != nil {
		c.Attributes = make(map[string]any, len(n.Attributes))
		for k, v := range n.Attributes {
			c.Attributes[k] = v
		}
	}
	if n.PositionX != nil {
		x := *n.PositionX
		c.PositionX = &x
	}
	if n.PositionY != nil {
		y := *n.PositionY
		c.PositionY = &y
	}
	return &c
}
