package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/virtualcv-api/internal/application/authz"
	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	NodeUC    *usecase.NodeUseCase
	ExportUC  *usecase.ExportUseCase
	Verifier  TokenVerifier
	Whitelist authz.Whitelist
}

// Router registra las rutas de la API. Todo el grupo /cv pasa por
// WriteAuthorization: las lecturas atraviesan el middleware sin chequeo,
// las escrituras exigen identidad verificada y permitida.
func Router(app *fiber.App, deps RouterDeps) {
	cv := app.Group("/cv", WriteAuthorization(deps.Verifier, deps.Whitelist))

	nodeHandler := NewNodeHandler(deps.NodeUC)
	cv.Get("/", nodeHandler.GetAll)
	cv.Get("/search", nodeHandler.Search)
	cv.Get("/nodes/:id", nodeHandler.GetNode)
	cv.Get("/nodes/:id/children", nodeHandler.GetChildren)

	// Creación tipada: un endpoint por variante de comando.
	cv.Post("/nodes/profile", nodeHandler.CreateProfile)
	cv.Post("/nodes/category", nodeHandler.CreateCategory)
	cv.Post("/nodes/item", nodeHandler.CreateItem)
	cv.Post("/nodes/skill-group", nodeHandler.CreateSkillGroup)
	cv.Post("/nodes/skill", nodeHandler.CreateSkill)

	cv.Put("/nodes/:id", nodeHandler.Update)
	cv.Delete("/nodes/:id", nodeHandler.Delete)

	if deps.ExportUC != nil {
		exportHandler := NewExportHandler(deps.ExportUC)
		cv.Get("/export/pdf", exportHandler.ExportPDF)
	}
}
