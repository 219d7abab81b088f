package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vkarpova/atlasinfo/internal/models"
)

// TokenValidity is the nominal lifetime encoded into a session token.
// Nothing in the system enforces it; the token is an opaque presence-based
// session marker, not real authentication.
const TokenValidity = 24 * time.Hour

// issueToken derives the session token from a user record: an unsigned JWT
// (alg "none") carrying id, username, role and an expiry instant in Unix
// milliseconds. The encoding is reversible and carries no integrity
// protection, faithfully to the system being replaced.
func issueToken(u models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"exp":      now.Add(TokenValidity).UnixMilli(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	return token.SignedString(jwt.UnsafeAllowNoneSignatureType)
}
