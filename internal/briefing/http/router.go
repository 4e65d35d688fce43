package http

import "github.com/gin-gonic/gin"

// Register registers the auth and workspace routes. loginGuards run before
// the login handler.
func (h *Handler) Register(rg *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	rg.POST("/auth/login", append(loginGuards, h.Login)...)

	authed := rg.Group("", h.SessionMiddleware())
	authed.POST("/auth/logout", h.Logout)

	w := authed.Group("/workspace")
	w.GET("", h.GetWorkspace)
	w.GET("/progress", h.GetProgress)
	w.GET("/unload", h.Unload)
	w.GET("/export.pdf", h.ExportPDF)
	w.POST("/save", h.Save)
	w.PUT("/project-one/:section/:field", h.SetProjectOneField)

	w.POST("/challenges", h.AddChallenge)
	w.PATCH("/challenges/:id", h.UpdateChallenge)
	w.DELETE("/challenges/:id", h.RemoveChallenge)
	w.POST("/challenges/:id/blur", h.BlurChallenge)

	w.POST("/icons", h.AddIcon)
	w.PATCH("/icons/:id", h.UpdateIcon)
	w.DELETE("/icons/:id", h.RemoveIcon)
	w.POST("/icons/:id/blur", h.BlurIcon)
}
