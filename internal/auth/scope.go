// internal/auth/scope.go
package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrifresh/agrifresh-backend/internal/models"
	"github.com/agrifresh/agrifresh-backend/internal/utils"
)

var ErrInvalidToken = errors.New("missing or invalid token")

// Scope is the authorization context every store operation is filtered by.
// It is derived from a verified token only, never from message entities.
type Scope struct {
	UserID uuid.UUID
	Role   models.UserRole
}

func (s Scope) IsFarmer() bool {
	return s.Role == models.UserRoleFarmer
}

// ResolveScope verifies the token and extracts the acting user. Any
// verification failure (absent, malformed, bad signature, expired)
// collapses into ErrInvalidToken.
func ResolveScope(token string) (Scope, error) {
	if token == "" {
		return Scope{}, ErrInvalidToken
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return Scope{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Scope{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	role := models.UserRole(claims.Role)
	if role != models.UserRoleFarmer && role != models.UserRoleCustomer {
		return Scope{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return Scope{UserID: userID, Role: role}, nil
}
