package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sync      *SyncHandler
	Webhook   *WebhookHandler
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Superficie de control (requiere Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	syncGroup := api.Group("/sync")
	syncGroup.Post("/full", deps.Sync.StartFullSync)
	syncGroup.Get("/status", deps.Sync.Status)

	// Webhooks de la plataforma (público, verificado por HMAC)
	webhooks := app.Group("/webhooks")
	webhooks.Post("/inventory-levels", deps.Webhook.HandleInventoryLevel)
}
