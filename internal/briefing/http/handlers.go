package http

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/motion-studio/briefing-backend/internal/auth"
	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/export"
	"github.com/motion-studio/briefing-backend/internal/briefing/workspace"
	"github.com/motion-studio/briefing-backend/internal/logging"
)

const (
	ctxWorkspace = "workspace"
	ctxToken     = "session_token"
)

// Handler serves login and the workspace routes
type Handler struct {
	gate     *auth.Gate
	registry *workspace.Registry
}

func New(gate *auth.Gate, registry *workspace.Registry) *Handler {
	return &Handler{gate: gate, registry: registry}
}

// Login authenticates and opens a workspace for the resolved session
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	session, err := h.gate.Authenticate(req.Username, req.Password, req.Admin)
	if err != nil {
		writeError(c, "auth.login", err)
		return
	}

	token, view, err := h.registry.Open(c.Request.Context(), session)
	if err != nil {
		writeError(c, "auth.login", err)
		return
	}

	logging.NewLogger(c.Request.Context()).LogInfof("auth.login", "identity=%s role=%s", session.IdentityName, session.Role)
	c.JSON(http.StatusOK, LoginResponse{OK: true, Token: token, Workspace: view})
}

// Logout ends the session unless it has unsaved changes
func (h *Handler) Logout(c *gin.Context) {
	if err := h.registry.Close(c.GetString(ctxToken)); err != nil {
		writeError(c, "auth.logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) GetWorkspace(c *gin.Context) {
	view, err := ws(c).View()
	if err != nil {
		writeError(c, "workspace.get", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetProgress(c *gin.Context) {
	p, err := ws(c).Progress()
	if err != nil {
		writeError(c, "workspace.progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetProjectOneField sets one script field; allowComparisons takes "true" or "false"
func (h *Handler) SetProjectOneField(c *gin.Context) {
	var body FieldValue
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if err := ws(c).SetProjectOneField(c.Param("section"), c.Param("field"), body.Value); err != nil {
		writeError(c, "workspace.project_one", err)
		return
	}
	h.respondView(c)
}

func (h *Handler) AddChallenge(c *gin.Context) {
	row, err := ws(c).AddChallenge()
	if err != nil {
		writeError(c, "workspace.challenge_add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "row": row})
}

func (h *Handler) UpdateChallenge(c *gin.Context) {
	var body RowFieldUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if err := ws(c).UpdateChallenge(c.Param("id"), body.Field, body.Value); err != nil {
		writeError(c, "workspace.challenge_update", err)
		return
	}
	h.respondView(c)
}

func (h *Handler) RemoveChallenge(c *gin.Context) {
	if err := ws(c).RemoveChallenge(c.Param("id")); err != nil {
		writeError(c, "workspace.challenge_remove", err)
		return
	}
	h.respondView(c)
}

// BlurChallenge returns the appended row, if the blur grew the list
func (h *Handler) BlurChallenge(c *gin.Context) {
	var body BlurRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	added, err := ws(c).BlurChallenge(c.Param("id"), body.Field)
	if err != nil {
		writeError(c, "workspace.challenge_blur", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "added": added})
}

func (h *Handler) AddIcon(c *gin.Context) {
	row, err := ws(c).AddIcon()
	if err != nil {
		writeError(c, "workspace.icon_add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "row": row})
}

func (h *Handler) UpdateIcon(c *gin.Context) {
	var body RowFieldUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if err := ws(c).UpdateIcon(c.Param("id"), body.Field, body.Value); err != nil {
		writeError(c, "workspace.icon_update", err)
		return
	}
	h.respondView(c)
}

func (h *Handler) RemoveIcon(c *gin.Context) {
	if err := ws(c).RemoveIcon(c.Param("id")); err != nil {
		writeError(c, "workspace.icon_remove", err)
		return
	}
	h.respondView(c)
}

func (h *Handler) BlurIcon(c *gin.Context) {
	var body BlurRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	added, err := ws(c).BlurIcon(c.Param("id"), body.Field)
	if err != nil {
		writeError(c, "workspace.icon_blur", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "added": added})
}

// Save pushes the record through the gateway. On failure the gateway's
// message is returned verbatim.
func (h *Handler) Save(c *gin.Context) {
	if err := ws(c).Save(c.Request.Context()); err != nil {
		writeError(c, "workspace.save", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": domain.MsgSaved})
}

// Unload tells the page whether closing must be confirmed
func (h *Handler) Unload(c *gin.Context) {
	block, msg := ws(c).BeforeUnload()
	c.JSON(http.StatusOK, UnloadResponse{Block: block, Message: msg})
}

// ExportPDF renders the print view of the loaded record
func (h *Handler) ExportPDF(c *gin.Context) {
	view, err := ws(c).View()
	if err != nil {
		writeError(c, "workspace.export", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, view.Session.RecordKey, view.Record); err != nil {
		writeError(c, "workspace.export", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="briefing-`+view.Session.RecordKey+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) respondView(c *gin.Context) {
	view, err := ws(c).View()
	if err != nil {
		writeError(c, "workspace.get", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SessionMiddleware resolves the bearer token to its workspace
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing session token"})
			return
		}
		w, err := h.registry.Get(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "session expired, please sign in again"})
			return
		}
		c.Set(ctxToken, token)
		c.Set(ctxWorkspace, w)
		c.Next()
	}
}

func ws(c *gin.Context) *workspace.Workspace {
	return c.MustGet(ctxWorkspace).(*workspace.Workspace)
}
