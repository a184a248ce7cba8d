package internal

import (
	"net/http"
	"smd/internal/controllers"
	"smd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/metrics", http.HandlerFunc(apiController.ReceiveMetrics))
	routers.Post("/chat", http.HandlerFunc(apiController.Chat))
	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Get("/summary", http.HandlerFunc(apiController.GetSummary))
	routers.Get("/export", http.HandlerFunc(apiController.Export))
	routers.Post("/reset", http.HandlerFunc(apiController.Reset))
	return routers
}
