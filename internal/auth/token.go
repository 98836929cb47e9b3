package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the shape of the identity provider's session token. The
// role is published under public metadata; a top-level role claim is accepted
// for tokens minted by other tooling.
type SessionClaims struct {
	Metadata struct {
		Role string `json:"role,omitempty"`
	} `json:"metadata,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c SessionClaims) role() string {
	if c.Metadata.Role != "" {
		return c.Metadata.Role
	}
	return c.Role
}

// Verifier checks session tokens issued by the identity provider.
type Verifier struct {
	key     any
	methods []string
	opts    []jwt.ParserOption
}

// NewVerifier returns a Verifier for RS256 tokens when publicKeyPEM is set,
// otherwise for HS256 tokens signed with secret. issuer is enforced when set.
func NewVerifier(publicKeyPEM, secret, issuer string) (*Verifier, error) {
	v := &Verifier{}
	switch {
	case publicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		v.key = key
		v.methods = []string{jwt.SigningMethodRS256.Alg()}
	case secret != "":
		v.key = []byte(secret)
		v.methods = []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, errors.New("no token verification key configured")
	}
	v.opts = []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5 * time.Second),
	}
	if issuer != "" {
		v.opts = append(v.opts, jwt.WithIssuer(issuer))
	}
	return v, nil
}

// Verify parses and validates a session token and returns the caller.
func (v *Verifier) Verify(token string) (Identity, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil {
		return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Anonymous, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Identity{UserID: claims.Subject, Role: roleFromClaim(claims.role())}, nil
}

// SignHS256 mints a session token with a shared secret. It serves local
// development and tests; production tokens come from the identity provider.
func SignHS256(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	claims.Metadata.Role = role
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
