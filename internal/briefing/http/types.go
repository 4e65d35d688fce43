package http

import "github.com/motion-studio/briefing-backend/internal/briefing/workspace"

// LoginRequest is the body of POST /auth/login. Admin selects the admin form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

type LoginResponse struct {
	OK        bool           `json:"ok"`
	Token     string         `json:"token"`
	Workspace workspace.View `json:"workspace"`
}

// FieldValue is the body of every single-field edit
type FieldValue struct {
	Value string `json:"value"`
}

// RowFieldUpdate is the body of PATCH on a challenge or icon row
type RowFieldUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// BlurRequest names the field that lost focus
type BlurRequest struct {
	Field string `json:"field" binding:"required"`
}

type UnloadResponse struct {
	Block   bool   `json:"block"`
	Message string `json:"message,omitempty"`
}
