package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)

	apiGroup := e.Group("/api")
	apiGroup.POST("/extract", h.HandleExtract)
	apiGroup.POST("/summaries", h.HandleSummaries)
	apiGroup.POST("/quizzes", h.HandleQuizzes)

	sessions := apiGroup.Group("/sessions")
	sessions.GET("", h.HandleListSessions)
	sessions.GET("/:id", h.HandleGetSession)
	sessions.DELETE("/:id", h.HandleDeleteSession)
	sessions.GET("/:id/results/:index", h.HandleGetResult)
	sessions.GET("/:id/export/docx", h.HandleExportDocx)
	sessions.GET("/:id/export/xlsx", h.HandleExportXLSX)

	prefs := apiGroup.Group("/preferences")
	prefs.GET("/theme", h.HandleGetTheme)
	prefs.PUT("/theme", h.HandleSetTheme)
	prefs.POST("/theme/toggle", h.HandleToggleTheme)
}
