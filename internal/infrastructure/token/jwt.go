package token

import (
	"time"

	"fedbridge/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds host token generation configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// hostClaims represents the JWT claims handed to the host platform after a
// successful credential verification.
type hostClaims struct {
	Email  string `json:"email"`
	Tenant string `json:"tenant"`
	jwt.RegisteredClaims
}

// JWTIssuer generates signed host tokens. Implements domain.HostTokenIssuer.
type JWTIssuer struct {
	cfg JWTConfig
}

// NewJWTIssuer creates a new JWT issuer.
func NewJWTIssuer(cfg JWTConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

// IssueHostToken generates a signed JWT. The subject is the federation id,
// not the username, because usernames are mutable upstream.
func (j *JWTIssuer) IssueHostToken(user domain.FederatedUser) (string, error) {
	now := time.Now()
	claims := hostClaims{
		Email:  user.Email(),
		Tenant: user.TenantTag(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   user.FederationID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.Secret))
}
