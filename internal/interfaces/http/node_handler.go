package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/virtualcv-api/internal/application/command"
	"github.com/jhoicas/virtualcv-api/internal/application/dto"
	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
	"github.com/jhoicas/virtualcv-api/internal/domain"
)

// NodeHandler maneja las peticiones HTTP del árbol del CV. Las lecturas son
// públicas; las escrituras ya pasaron por WriteAuthorization.
type NodeHandler struct {
	uc *usecase.NodeUseCase
}

// NewNodeHandler construye el handler.
func NewNodeHandler(uc *usecase.NodeUseCase) *NodeHandler {
	return &NodeHandler{uc: uc}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// GetAll godoc
// @Summary      Documento completo del CV
// @Tags         cv
// @Produce      json
// @Success      200  {object}  dto.CvDataResponse
// @Router       /cv [get]
func (h *NodeHandler) GetAll(c *fiber.Ctx) error {
	out, err := h.uc.GetAllNodes(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// GetNode godoc
// @Summary      Obtener nodo por ID
// @Tags         cv
// @Produce      json
// @Param        id   path  string  true  "ID del nodo"
// @Success      200  {object}  dto.NodeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /cv/nodes/{id} [get]
func (h *NodeHandler) GetNode(c *fiber.Ctx) error {
	out, err := h.uc.GetNode(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if out == nil {
		return notFound(c)
	}
	return c.JSON(out)
}

// GetChildren godoc
// @Summary      Hijos directos de un nodo
// @Tags         cv
// @Produce      json
// @Param        id   path  string  true  "ID del nodo padre"
// @Success      200  {array}  dto.NodeResponse
// @Router       /cv/nodes/{id}/children [get]
func (h *NodeHandler) GetChildren(c *fiber.Ctx) error {
	out, err := h.uc.GetChildren(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar nodos por substring en label o description
// @Tags         cv
// @Produce      json
// @Param        q    query  string  true  "Texto a buscar"
// @Success      200  {array}   dto.NodeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /cv/search [get]
func (h *NodeHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "MISSING_QUERY", Message: "el parámetro q es requerido",
		})
	}
	out, err := h.uc.Search(c.Context(), q)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// ── Comandos: creación tipada ─────────────────────────────────────────────────

// CreateProfile godoc
// @Summary      Crear nodo de perfil
// @Tags         cv
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  command.CreateProfileCommand  true  "Comando de creación"
// @Success      201   {object}  dto.NodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /cv/nodes/profile [post]
func (h *NodeHandler) CreateProfile(c *fiber.Ctx) error {
	return h.create(c, new(command.CreateProfileCommand))
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         cv
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  command.CreateCategoryCommand  true  "Comando de creación"
// @Success      201   {object}  dto.NodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /cv/nodes/category [post]
func (h *NodeHandler) CreateCategory(c *fiber.Ctx) error {
	return h.create(c, new(command.CreateCategoryCommand))
}

// CreateItem godoc
// @Summary      Crear item (experiencia, proyecto, formación)
// @Tags         cv
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  command.CreateItemCommand  true  "Comando de creación"
// @Success      201   {object}  dto.NodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /cv/nodes/item [post]
func (h *NodeHandler) CreateItem(c *fiber.Ctx) error {
	return h.create(c, new(command.CreateItemCommand))
}

// CreateSkillGroup godoc
// @Summary      Crear grupo de habilidades
// @Tags         cv
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  command.CreateSkillGroupCommand  true  "Comando de creación"
// @Success      201   {object}  dto.NodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /cv/nodes/skill-group [post]
func (h *NodeHandler) CreateSkillGroup(c *fiber.Ctx) error {
	return h.create(c, new(command.CreateSkillGroupCommand))
}

// CreateSkill godoc
// @Summary      Crear habilidad
// @Tags         cv
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  command.CreateSkillCommand  true  "Comando de creación"
// @Success      201   {object}  dto.NodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /cv/nodes/skill [post]
func (h *NodeHandler) CreateSkill(c *fiber.Ctx) error {
	return h.create(c, new(command.CreateSkillCommand))
}

// create parsea el cuerpo en la variante concreta y ejecuta el comando.
func (h *NodeHandler) create(c *fiber.Ctx, cmd command.CreateNodeCommand) error {
	if err := c.BodyParser(cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo inválido",
		})
	}
	out, err := h.uc.Create(c.Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	c.Location("/cv/nodes/" + out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ── Comandos: actualización y borrado ─────────────────────────────────────────

// Update godoc
// @Summary      Actualización parcial de un nodo
// @Description  Los campos ausentes no se tocan; attributes se mergea clave sobre clave.
// @Tags         cv
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del nodo"
// @Param        body  body  command.UpdateNodeCommand  true  "Parche parcial (id debe coincidir con el path)"
// @Success      200   {object}  dto.NodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /cv/nodes/{id} [put]
func (h *NodeHandler) Update(c *fiber.Ctx) error {
	var in command.UpdateNodeCommand
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo inválido",
		})
	}
	if c.Params("id") != in.ID {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "ID_MISMATCH", Message: "el id del path no coincide con el del cuerpo",
		})
	}
	out, err := h.uc.Update(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un nodo y todo su subárbol
// @Tags         cv
// @Security     Bearer
// @Param        id   path  string  true  "ID del nodo"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /cv/nodes/{id} [delete]
func (h *NodeHandler) Delete(c *fiber.Ctx) error {
	removed, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if !removed {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Traducción de errores ─────────────────────────────────────────────────────

func writeError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: vErr.Error(), Fields: vErr.Fields,
		})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE", Message: "ya existe un nodo con ese id",
		})
	}
	return internalError(c, err)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Code: "NOT_FOUND", Message: "nodo no encontrado",
	})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: err.Error(),
	})
}
