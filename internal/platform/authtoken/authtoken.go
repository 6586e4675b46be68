// Package authtoken verifies the HS256 access tokens minted by the identity service.
package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleTeacher = "teacher"

var ErrNotTeacher = errors.New("token does not belong to a teacher")

type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Identity struct {
	TeacherID uuid.UUID
	Role      string
}

type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer), leeway: 30 * time.Second}
}

func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("token verification is not configured")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &Claims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return nil, errors.New("invalid or expired token")
	}
	teacherID, err := uuid.Parse(claims.Subject)
	if err != nil || teacherID == uuid.Nil {
		return nil, fmt.Errorf("invalid subject in token: %q", claims.Subject)
	}
	// Tokens without a role predate role claims and are teacher tokens.
	role := claims.Role
	if role == "" {
		role = RoleTeacher
	}
	if role != RoleTeacher {
		return nil, ErrNotTeacher
	}
	return &Identity{TeacherID: teacherID, Role: role}, nil
}

// Sign mints a token the Verifier accepts. Used by speakwellctl and tests.
func Sign(secret, issuer string, teacherID uuid.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   teacherID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
