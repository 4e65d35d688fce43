package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
	"github.com/motion-studio/briefing-backend/internal/logging"
)

// GatewayHandler serves the persistence endpoints on top of a storage backend
type GatewayHandler struct {
	store repository.Gateway
}

func NewGatewayHandler(store repository.Gateway) *GatewayHandler {
	return &GatewayHandler{store: store}
}

// Register registers /save and /load/:username
func (h *GatewayHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/save", h.Save)
	rg.GET("/load/:username", h.Load)
}

// Save replaces the stored record for the given username
func (h *GatewayHandler) Save(c *gin.Context) {
	logger := logging.NewLogger(c.Request.Context())

	var req domain.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Data == nil {
		c.JSON(http.StatusBadRequest, domain.SaveResponse{Success: false, Message: domain.MsgIncomplete})
		return
	}

	if err := h.store.Store(c.Request.Context(), req.Username, *req.Data); err != nil {
		logger.LogError("gateway.save", err)
		c.JSON(http.StatusInternalServerError, domain.SaveResponse{Success: false, Message: domain.MsgSaveFailed})
		return
	}

	logger.LogInfof("gateway.save", "username=%s stored", req.Username)
	c.JSON(http.StatusOK, domain.SaveResponse{Success: true, Message: domain.MsgSaved})
}

// Load returns the stored record for username
func (h *GatewayHandler) Load(c *gin.Context) {
	logger := logging.NewLogger(c.Request.Context())
	username := c.Param("username")

	rec, found, err := h.store.Fetch(c.Request.Context(), username)
	if err != nil {
		logger.LogError("gateway.load", err)
		c.JSON(http.StatusInternalServerError, domain.LoadResponse{Success: false, Message: domain.MsgLoadFailed})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, domain.LoadResponse{Success: false, Message: domain.MsgUserNotFound})
		return
	}

	c.JSON(http.StatusOK, domain.LoadResponse{Success: true, Data: &rec})
}
