package auth

import (
	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

const (
	msgClientAuthFailed = "Invalid username or password"
	msgAdminAuthFailed  = "Invalid admin credentials"
)

// Gate resolves a login to a Session. The admin always reviews ClientKey's
// record; the system serves exactly one client.
type Gate struct {
	verifier  CredentialVerifier
	clientKey string
}

func NewGate(verifier CredentialVerifier, clientKey string) *Gate {
	return &Gate{verifier: verifier, clientKey: clientKey}
}

// Authenticate checks the pair for the requested role. Failures return a
// *domain.AuthError whose message does not say which part was wrong.
func (g *Gate) Authenticate(username, password string, wantsAdmin bool) (domain.Session, error) {
	if wantsAdmin {
		if !g.verifier.Verify(username, password, domain.RoleAdmin) {
			return domain.Session{}, &domain.AuthError{Role: domain.RoleAdmin, Message: msgAdminAuthFailed}
		}
		return domain.Session{IdentityName: username, Role: domain.RoleAdmin, RecordKey: g.clientKey}, nil
	}

	if !g.verifier.Verify(username, password, domain.RoleClient) {
		return domain.Session{}, &domain.AuthError{Role: domain.RoleClient, Message: msgClientAuthFailed}
	}
	return domain.Session{IdentityName: username, Role: domain.RoleClient, RecordKey: username}, nil
}
