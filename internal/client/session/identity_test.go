package session

import (
	"testing"

	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return tok
}

func TestIdentityFromToken(t *testing.T) {
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		wantUser string
		wantRole string
	}{
		{name: "username and role", claims: jwt.MapClaims{"username": "alice", "role": "admin"}, wantUser: "alice", wantRole: "admin"},
		{name: "sub fallback", claims: jwt.MapClaims{"sub": "bob"}, wantUser: "bob"},
		{name: "roles array", claims: jwt.MapClaims{"email": "c@d.com", "roles": []any{"editor", "viewer"}}, wantUser: "c@d.com", wantRole: "editor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, role, err := IdentityFromToken(signed(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

func TestIdentityFromToken_Opaque(t *testing.T) {
	_, _, err := IdentityFromToken("T1")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
