package auth

import (
	"time"

	"farmconnect/internal/apperr"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Actor identifies the authenticated caller. Admin tokens carry an
// empty ID because the admin is config-defined, not a stored account.
type Actor struct {
	ID   string
	Role string
}

// Claims are the JWT claims carried by bearer tokens.
type Claims struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for the actor.
func (ti *TokenIssuer) Issue(actor Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:   actor.ID,
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Parse verifies a token string and returns the actor it names.
func (ti *TokenIssuer) Parse(tokenString string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.KindUnauthorized, "unexpected signing method")
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, apperr.Wrap(apperr.KindUnauthorized, "token verification failed", err)
	}
	if claims.Role == "" {
		return Actor{}, apperr.New(apperr.KindUnauthorized, "role not found in token")
	}
	return Actor{ID: claims.ID, Role: claims.Role}, nil
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
