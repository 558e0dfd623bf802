package cache

import (
	"encoding/base64"
	"testing"
)

func jwtWithClaims(claims string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(claims))
	return header + "." + payload + ".signature"
}

func TestDeriveUserID(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  string
	}{
		{"subject claim", jwtWithClaims(`{"sub":"user-42"}`), "user-42"},
		{"subject trimmed", jwtWithClaims(`{"sub":"  user-42  "}`), "user-42"},
		{"id claim string fallback", jwtWithClaims(`{"id":"abc"}`), "abc"},
		{"id claim numeric fallback", jwtWithClaims(`{"id":42}`), "42"},
		{"sub wins over id", jwtWithClaims(`{"sub":"primary","id":"secondary"}`), "primary"},
		{"no usable claim", jwtWithClaims(`{"exp":9999999999}`), ""},
		{"empty subject", jwtWithClaims(`{"sub":""}`), ""},
		{"empty token", "", ""},
		{"whitespace token", "   ", ""},
		{"not a jwt", "opaque-api-key", ""},
		{"wrong segment count", "a.b", ""},
		{"garbage payload", "aGVhZGVy.!!!notbase64!!!.sig", ""},
	}
	for _, tc := range cases {
		if got := DeriveUserID(tc.token); got != tc.want {
			t.Errorf("%s: DeriveUserID(%q) = %q, want %q", tc.name, tc.token, got, tc.want)
		}
	}
}

func TestDeriveUserIDIgnoresSignature(t *testing.T) {
	// Derivation never verifies; any signature segment yields the same id.
	a := jwtWithClaims(`{"sub":"u1"}`)
	b := a[:len(a)-len("signature")] + "completely-different"
	if DeriveUserID(a) != DeriveUserID(b) {
		t.Fatalf("signature must not affect derivation")
	}
}

func TestUserKey(t *testing.T) {
	if got := userKey("u1"); got != "user_u1" {
		t.Fatalf("userKey(u1) = %q", got)
	}
	if got := userKey(""); got != globalKey {
		t.Fatalf("userKey(empty) = %q, want %q", got, globalKey)
	}
	if got := userKey("  "); got != globalKey {
		t.Fatalf("userKey(whitespace) = %q, want %q", got, globalKey)
	}
}
