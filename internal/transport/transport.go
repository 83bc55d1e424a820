package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/WB_L3/editor/internal/transport/middleware"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

func InitRoutes(editHandler *EditHandler, requestTimeout time.Duration, checks map[string]HealthCheck) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	// API routes
	api := router.Group("/api/v1")
	{
		assets := api.Group("/assets/:id")
		{
			assets.PUT("/edits", editHandler.EditAsset)
			assets.GET("/edits", editHandler.GetAssetEdits)
			assets.DELETE("/edits", editHandler.RemoveAssetEdits)
			assets.POST("/annotations/remap", editHandler.RemapAnnotations)
			assets.GET("/faces", editHandler.GetAssetFaces)
			assets.GET("/ocr", editHandler.GetAssetOcr)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status, code := gin.H{}, http.StatusOK
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				status[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}

		c.JSON(code, gin.H{
			"status":       http.StatusText(code),
			"service":      "asset-editor",
			"dependencies": status,
		})
	})

	return router
}
