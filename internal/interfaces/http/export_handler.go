package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/virtualcv-api/internal/application/dto"
	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
	"github.com/jhoicas/virtualcv-api/internal/domain"
)

// ExportHandler expone la exportación del CV a PDF.
type ExportHandler struct {
	uc *usecase.ExportUseCase
}

// NewExportHandler construye el handler de exportación.
func NewExportHandler(uc *usecase.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// ExportPDF godoc
// @Summary      Exportar el CV completo como PDF
// @Tags         cv
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /cv/export/pdf [get]
func (h *ExportHandler) ExportPDF(c *fiber.Ctx) error {
	data, err := h.uc.GeneratePDF(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code: "NOT_FOUND", Message: "no hay nodos para exportar",
			})
		}
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cv.pdf"`)
	return c.Send(data)
}
