package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Routes holds the handlers to mount. Batch and Search are optional and
// their endpoints are only registered when set.
type Routes struct {
	Evaluate *EvaluateHandler
	Batch    *BatchHandler
	Search   *SearchHandler
}

func SetupRoutes(app *fiber.App, routes Routes) {
	app.Get("/", HandleIndex)
	app.Post("/evaluate", routes.Evaluate.HandleEvaluate)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	if routes.Batch != nil {
		api.Post("/evaluate", routes.Batch.HandleSubmit)
		api.Get("/result/:id", routes.Batch.HandleGetResult)
	}

	if routes.Search != nil {
		api.Get("/candidates/search", routes.Search.HandleSearch)
	}
}
