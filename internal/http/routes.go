package http

import (
	"todo_webapp/internal/http/handlers"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router needs. Hub may be nil, in which case
// /ws is not mounted.
type Deps struct {
	Todos         handlers.TodoService
	DB            handlers.Pinger
	Hub           *ws.Hub
	Version       string
	AllowedOrigin string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Todos)

	var feed handlers.FeedStats
	if d.Hub != nil {
		feed = d.Hub
	}
	healthHandler := handlers.NewHealthHandler(d.DB, feed, d.Version)

	// Health checks
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Todo routes live at the root and under /api for clients behind a proxy prefix
	registerAPIRoutes(r.Group(""), h)

	api := r.Group("/api")
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h)

	// Change feed
	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, d.AllowedOrigin))
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	api.GET("/todos", h.ListTodos)
	api.POST("/todos", h.CreateTodo)
	api.PATCH("/todos/:id", h.UpdateTodo)
	api.DELETE("/todos/:id", h.DeleteTodo)
}
