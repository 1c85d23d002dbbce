// Package api exposes the engine over HTTP, the ambient entrypoint
// SPEC_FULL.md assigns to spec §1's "CLI" external concern: the teacher is
// a web service, so the developer persona in spec §1 drives runs over
// HTTP instead of a terminal command, grounded on the teacher's
// internal/api (routes.go, service_handlers.go).
package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the run-analysis surface on router, mirroring the
// teacher's SetupRoutesWithServices (internal/api/routes_services.go).
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.Use(CORSMiddleware())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		v1.POST("/runs", h.createRun)
		v1.GET("/runs/:id", h.getRun)
		v1.GET("/runs/:id/groups", h.getRunGroups)
		v1.GET("/runs/:id/dot", h.getRunDOT)
	}
}

// CORSMiddleware mirrors the teacher's CORSMiddleware (internal/api/
// routes.go) unchanged: this engine's HTTP surface has the same
// same-origin-agnostic deployment shape as the teacher's.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
