package session

import (
	"fmt"

	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityFromToken reads the username and role claims of a JWT access token.
//
// The signature is NOT verified: the result is only used for display and menu
// gating, authorization stays with the server.
func IdentityFromToken(accessToken string) (username, role string, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	for _, key := range []string{"username", "preferred_username", "email", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			username = v
			break
		}
	}

	switch v := claims["role"].(type) {
	case string:
		role = v
	default:
		if roles, ok := claims["roles"].([]any); ok && len(roles) > 0 {
			role, _ = roles[0].(string)
		}
	}
	return username, role, nil
}
