package cache

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DeriveUserID extracts the subject claim from a bearer token without
// verifying its signature. The result partitions the local cache and
// nothing else: it is a non-authoritative hint and must never feed an
// authorization decision. An empty return falls back to the shared slot.
func DeriveUserID(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || strings.Count(token, ".") != 2 {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if sub, err := claims.GetSubject(); err == nil && strings.TrimSpace(sub) != "" {
		return strings.TrimSpace(sub)
	}
	// Some issuers put the user id in a bare "id" claim instead of "sub".
	switch id := claims["id"].(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	return ""
}
