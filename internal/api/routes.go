package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the booth API under /api.
func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/strips", s.stripHandler)
		api.GET("/qr", s.qrHandler)

		api.GET("/frames", s.listFrames)
		api.POST("/frames", s.createFrame)
		api.GET("/frames/:id", s.getFrame)
		api.PUT("/frames/:id", s.updateFrame)
		api.DELETE("/frames/:id", s.deleteFrame)

		api.GET("/links", s.listLinks)
		api.GET("/links/export", s.exportLinks)
		api.POST("/links", s.createLink)
		api.PUT("/links/:id", s.updateLink)
		api.DELETE("/links/:id", s.deleteLink)
		api.GET("/links/:id/qr", s.linkQRHandler)
	}
}
