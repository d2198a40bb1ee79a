// README: API gateway; registers HTTP routes and delegates to the assistant.
package http

import (
	"github.com/gin-gonic/gin"

	"voyago/internal/http/handlers"
	"voyago/internal/http/middleware"
	"voyago/internal/service"
)

type ServerDeps struct {
	Assistant *service.Assistant
}

type Server struct {
	assistant *service.Assistant
}

func NewServer(deps ServerDeps) *Server {
	return &Server{assistant: deps.Assistant}
}

// Routes builds the Gin engine with all API routes registered.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	chat := handlers.NewChatHandler(s.assistant)
	r.POST("/api/chat", chat.Chat)
	r.POST("/api/sessions/:id/reset", chat.Reset)

	widgets := handlers.NewWidgetHandler(s.assistant)
	r.POST("/api/widgets/interactions", widgets.RecordInteraction)
	r.GET("/api/widgets/next", widgets.Next)
	r.GET("/api/widgets/:kind/can-show", widgets.CanShow)
	r.GET("/api/cooldowns/summary", widgets.CooldownSummary)

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	return r
}
