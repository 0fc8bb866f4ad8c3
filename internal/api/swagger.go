package api

import (
	"net/http"

	_ "camsentry/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "CamSentry API",
			"version":     s.config.Version,
			"description": "Security camera motion pipeline: webhook intake, vision classification and notification dispatch",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":       "/health",
				"service_info": "/",
				"motion":       "/motion",
				"system":       "/system",
			},
			"port": s.config.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}
