package command

import "strings"

// UpdateNodeCommand parche parcial sobre un nodo existente. Todos los campos
// salvo ID son opcionales: nil (o mapa nil) significa "no tocar". El merge de
// Attributes es clave sobre clave: las claves no mencionadas sobreviven.
type UpdateNodeCommand struct {
	ID          string         `json:"id"`
	ParentID    *string        `json:"parentId"`
	Label       *string        `json:"label"`
	Description *string        `json:"description"`
	Attributes  map[string]any `json:"attributes"`
	PositionX   *int           `json:"positionX"`
	PositionY   *int           `json:"positionY"`
}

// Validate devuelve los campos requeridos que faltan (solo id; un label
// presente pero en blanco también se rechaza).
func (c *UpdateNodeCommand) Validate() []string {
	var missing []string
	if strings.TrimSpace(c.ID) == "" {
		missing = append(missing, "id")
	}
	if c.Label != nil && strings.TrimSpace(*c.Label) == "" {
		missing = append(missing, "label")
	}
	return missing
}
