package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SyncHandler *SyncHandler
	JWTSecret   string
}

// Router registra las rutas de la API. El gateway completo va protegido con
// Bearer Token estático (no hay usuarios ni sesiones en este servicio).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	syncGroup := api.Group("/sync", AuthMiddleware(deps.JWTSecret))
	syncGroup.Post("/trigger", deps.SyncHandler.Trigger)
	syncGroup.Get("/logs", deps.SyncHandler.Logs)
}
