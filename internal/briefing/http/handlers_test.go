package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/motion-studio/briefing-backend/internal/auth"
	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/mirror"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
	"github.com/motion-studio/briefing-backend/internal/briefing/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingGateway rejects every store
type failingGateway struct {
	repository.Gateway
}

func (failingGateway) Store(ctx context.Context, key string, rec domain.ClientRecord) error {
	return errors.New("disk unavailable")
}

type testServer struct {
	router *gin.Engine
	store  repository.Gateway
}

func newTestServer(t *testing.T, store repository.Gateway) *testServer {
	t.Helper()
	if store == nil {
		fs, err := repository.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
		require.NoError(t, err)
		store = fs
	}
	gate := auth.NewGate(auth.StaticVerifier{
		Client: auth.Credential{Username: "amirsoofi", Password: "4523"},
		Admin:  auth.Credential{Username: "arshia", Password: "4523"},
	}, "amirsoofi")

	r := gin.New()
	api := r.Group("/api")
	NewGatewayHandler(store).Register(api)
	New(gate, workspace.NewRegistry(store, mirror.NewMemory())).Register(api)
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, user, pass string, admin bool) LoginResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Username: user, Password: pass, Admin: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) workspace.View {
	t.Helper()
	var v workspace.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestGatewaySaveAndLoad(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/load/amirsoofi", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var miss domain.LoadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &miss))
	assert.False(t, miss.Success)

	rec := domain.BlankRecord()
	rec.ProjectOne.WhyUs.Duration = "60s"
	w = s.do(t, http.MethodPost, "/api/save", "", domain.SaveRequest{Username: "amirsoofi", Data: &rec})
	require.Equal(t, http.StatusOK, w.Code)
	var saved domain.SaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.True(t, saved.Success)
	assert.Equal(t, domain.MsgSaved, saved.Message)

	w = s.do(t, http.MethodGet, "/api/load/amirsoofi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded domain.LoadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	require.True(t, loaded.Success)
	assert.Equal(t, rec, *loaded.Data)
}

func TestGatewaySave_Incomplete(t *testing.T) {
	s := newTestServer(t, nil)
	rec := domain.BlankRecord()

	for _, body := range []interface{}{
		domain.SaveRequest{Username: "amirsoofi"},
		domain.SaveRequest{Data: &rec},
		"not an object",
	} {
		w := s.do(t, http.MethodPost, "/api/save", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp domain.SaveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, domain.MsgIncomplete, resp.Message)
	}
}

func TestGatewaySave_StoreFailure(t *testing.T) {
	s := newTestServer(t, failingGateway{})
	rec := domain.BlankRecord()
	w := s.do(t, http.MethodPost, "/api/save", "", domain.SaveRequest{Username: "amirsoofi", Data: &rec})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp domain.SaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.MsgSaveFailed, resp.Message)
}

func TestLogin_Rejected(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "amirsoofi", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")

	w = s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "amirsoofi", Password: "4523", Admin: true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid admin credentials")
}

func TestWorkspaceRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/workspace", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/workspace", "bogus", nil).Code)
}

func TestClientEditSaveLogout(t *testing.T) {
	s := newTestServer(t, nil)
	login := s.login(t, "amirsoofi", "4523", false)
	assert.False(t, login.Workspace.Dirty)
	require.Len(t, login.Workspace.Record.ProjectTwo, 1)
	token := login.Token

	w := s.do(t, http.MethodPut, "/api/workspace/project-one/whyUs/duration", token, FieldValue{Value: "60s"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeView(t, w)
	assert.True(t, view.Dirty)
	assert.Equal(t, 4, view.Progress.P1)

	w = s.do(t, http.MethodPut, "/api/workspace/project-one/pricing/duration", token, FieldValue{Value: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/workspace/unload", token, nil)
	var unload UnloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unload))
	assert.True(t, unload.Block)

	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgUnsavedChanges)

	w = s.do(t, http.MethodPost, "/api/workspace/save", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec, found, err := s.store.Fetch(context.Background(), "amirsoofi")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "60s", rec.ProjectOne.WhyUs.Duration)

	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/workspace", token, nil).Code)
}

func TestFailedSaveSurfacesMessage(t *testing.T) {
	fs, err := repository.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	s := newTestServer(t, failingGateway{Gateway: fs})
	token := s.login(t, "amirsoofi", "4523", false).Token

	w := s.do(t, http.MethodPost, "/api/workspace/save", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgSaveFailed)
}

func TestRowsAutoGrow(t *testing.T) {
	s := newTestServer(t, nil)
	login := s.login(t, "amirsoofi", "4523", false)
	token := login.Token
	id := login.Workspace.Record.ProjectTwo[0].ID

	for field, value := range map[string]string{"name": "Lead times", "problem": "Slow", "strategy": "Automate"} {
		w := s.do(t, http.MethodPatch, "/api/workspace/challenges/"+id, token, RowFieldUpdate{Field: field, Value: value})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodPost, "/api/workspace/challenges/"+id+"/blur", token, BlurRequest{Field: "result"})
	require.Equal(t, http.StatusOK, w.Code)
	var blur struct {
		Added *domain.ChallengeRow `json:"added"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blur))
	require.NotNil(t, blur.Added)
	assert.Equal(t, domain.DefaultBridgeSentence, blur.Added.BridgeSentence)

	w = s.do(t, http.MethodDelete, "/api/workspace/challenges/"+blur.Added.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeView(t, w).Record.ProjectTwo, 1)

	w = s.do(t, http.MethodDelete, "/api/workspace/challenges/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/workspace/icons", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPatch, "/api/workspace/icons/"+login.Workspace.Record.ProjectThree[0].ID, token, RowFieldUpdate{Field: "actionType", Value: "bounce"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/workspace/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"p2":60`)
}

func TestAdminReadOnlyAndExport(t *testing.T) {
	s := newTestServer(t, nil)
	rec := domain.BlankRecord()
	rec.ProjectOne.WhyUs.CTA = "Book a call"
	require.NoError(t, s.store.Store(context.Background(), "amirsoofi", rec))

	login := s.login(t, "arshia", "4523", true)
	assert.Equal(t, "Book a call", login.Workspace.Record.ProjectOne.WhyUs.CTA)
	assert.Equal(t, domain.RoleAdmin, login.Workspace.Session.Role)
	token := login.Token

	w := s.do(t, http.MethodPut, "/api/workspace/project-one/whyUs/cta", token, FieldValue{Value: "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPost, "/api/workspace/save", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/workspace/export.pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/logout", token, nil).Code)
}
