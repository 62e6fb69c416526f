package access

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

const (
	adminUsername      = "admin"
	adminPassword      = "admin"
	marketUserSuffix   = "_user"
	marketUserPassword = "password123"
)

type credential struct {
	password string
	role     string
}

// CredentialTable is the static in-memory login table. It is rebuilt from the
// market list whenever markets are refreshed.
type CredentialTable struct {
	mu    sync.RWMutex
	users map[string]credential
}

// NewCredentialTable builds the table for the given markets.
func NewCredentialTable(markets []string) *CredentialTable {
	t := &CredentialTable{}
	t.Refresh(markets)
	return t
}

// Refresh replaces the market users. The admin account is always present.
func (t *CredentialTable) Refresh(markets []string) {
	users := map[string]credential{
		adminUsername: {password: adminPassword, role: AdminRole},
	}
	for _, market := range markets {
		market = strings.TrimSpace(market)
		if market == "" {
			continue
		}
		users[strings.ToLower(market)+marketUserSuffix] = credential{password: marketUserPassword, role: market}
	}

	t.mu.Lock()
	t.users = users
	t.mu.Unlock()
}

// Authenticate checks the credentials and that the selected role matches the
// account. It returns the role the session is bound to.
func (t *CredentialTable) Authenticate(username, password, selectedRole string) (string, error) {
	t.mu.RLock()
	cred, ok := t.users[strings.TrimSpace(username)]
	t.mu.RUnlock()

	if !ok || cred.password != password {
		return "", fmt.Errorf("%w: invalid username or password", models.ErrUnauthorized)
	}

	if cred.role == AdminRole && selectedRole != AdminRole {
		return "", fmt.Errorf("%w: admin must select the admin role", models.ErrUnauthorized)
	}
	if cred.role != AdminRole && selectedRole != cred.role {
		return "", fmt.Errorf("%w: you can only access market %s", models.ErrUnauthorized, cred.role)
	}
	return cred.role, nil
}

// Size returns the number of accounts, admin included.
func (t *CredentialTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.users)
}
