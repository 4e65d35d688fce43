package auth

import (
	"crypto/subtle"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// CredentialVerifier decides whether a username/password pair is valid for a role
type CredentialVerifier interface {
	Verify(username, password string, role domain.Role) bool
}

// Credential is one configured username/password pair
type Credential struct {
	Username string
	Password string
}

// StaticVerifier accepts exactly one pair per role
type StaticVerifier struct {
	Client Credential
	Admin  Credential
}

func (v StaticVerifier) Verify(username, password string, role domain.Role) bool {
	var want Credential
	switch role {
	case domain.RoleClient:
		want = v.Client
	case domain.RoleAdmin:
		want = v.Admin
	default:
		return false
	}
	if want.Username == "" || want.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(want.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(want.Password)) == 1
	return userOK && passOK
}
