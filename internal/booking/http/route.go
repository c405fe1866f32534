package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bookings")
	{
		group.GET("", h.List)
		group.POST("", h.Reserve)
		group.POST("/cancel", h.Cancel)
	}

	g.GET("/slots", h.Slots)

	// Single-URL form endpoint: GET lists, POST dispatches on "action".
	g.GET("/exec", h.List)
	g.POST("/exec", h.Exec)
}
