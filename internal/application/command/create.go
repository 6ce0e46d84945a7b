// Package command define el modelo de comandos del CV: un conjunto sellado
// de variantes de creación (una por tipo de nodo) más un comando genérico de
// actualización. Los structs son también el contrato JSON de los endpoints
// de escritura.
package command

import "strings"

// CreateBase campos compartidos por todas las variantes de creación.
// El id lo asigna el llamador (no se genera); parentId es opcional y se
// resuelve con política resolve-or-ignore en el servicio.
type CreateBase struct {
	ID          string `json:"id"`
	ParentID    string `json:"parentId"`
	Label       string `json:"label"`
	Description string `json:"description"`
	PositionX   *int   `json:"positionX"`
	PositionY   *int   `json:"positionY"`
}

// CreateNodeCommand conjunto sellado de comandos de creación. El método no
// exportado impide implementaciones fuera de este paquete: el dispatch del
// servicio hace un type switch exhaustivo y hace panic ante una variante
// desconocida.
type CreateNodeCommand interface {
	Base() CreateBase

	// Validate devuelve los nombres de los campos requeridos que faltan.
	Validate() []string

	sealedCreate()
}

// validateBase valida los campos compartidos (id y label no en blanco).
func validateBase(b CreateBase) []string {
	var missing []string
	if strings.TrimSpace(b.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(b.Label) == "" {
		missing = append(missing, "label")
	}
	return missing
}

// CreateProfileCommand crea el nodo de perfil (raíz típica del CV).
type CreateProfileCommand struct {
	CreateBase
	Name       string `json:"name"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Experience string `json:"experience"`
	Email      string `json:"email"`
	Location   string `json:"location"`
	PhotoURL   string `json:"photoUrl"`
}

func (c *CreateProfileCommand) Base() CreateBase { return c.CreateBase }
func (c *CreateProfileCommand) Validate() []string {
	missing := validateBase(c.CreateBase)
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Title) == "" {
		missing = append(missing, "title")
	}
	return missing
}
func (c *CreateProfileCommand) sealedCreate() {}

// CreateCategoryCommand crea una categoría (sección del CV).
type CreateCategoryCommand struct {
	CreateBase
	SectionID string `json:"sectionId"`
}

func (c *CreateCategoryCommand) Base() CreateBase { return c.CreateBase }
func (c *CreateCategoryCommand) Validate() []string {
	missing := validateBase(c.CreateBase)
	if strings.TrimSpace(c.SectionID) == "" {
		missing = append(missing, "sectionId")
	}
	return missing
}
func (c *CreateCategoryCommand) sealedCreate() {}

// CreateItemCommand crea un item (experiencia, proyecto, formación...).
type CreateItemCommand struct {
	CreateBase
	Company      string   `json:"company"`
	DateRange    string   `json:"dateRange"`
	Location     string   `json:"location"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies"`
}

func (c *CreateItemCommand) Base() CreateBase   { return c.CreateBase }
func (c *CreateItemCommand) Validate() []string { return validateBase(c.CreateBase) }
func (c *CreateItemCommand) sealedCreate()      {}

// CreateSkillGroupCommand crea un grupo de habilidades.
type CreateSkillGroupCommand struct {
	CreateBase
	ProficiencyLevel string `json:"proficiencyLevel"`
}

func (c *CreateSkillGroupCommand) Base() CreateBase   { return c.CreateBase }
func (c *CreateSkillGroupCommand) Validate() []string { return validateBase(c.CreateBase) }
func (c *CreateSkillGroupCommand) sealedCreate()      {}

// CreateSkillCommand crea una habilidad individual.
type CreateSkillCommand struct {
	CreateBase
	ProficiencyLevel  string `json:"proficiencyLevel"`
	YearsOfExperience *int   `json:"yearsOfExperience"`
}

func (c *CreateSkillCommand) Base() CreateBase   { return c.CreateBase }
func (c *CreateSkillCommand) Validate() []string { return validateBase(c.CreateBase) }
func (c *CreateSkillCommand) sealedCreate()      {}
