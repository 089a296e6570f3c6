package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims - полезная нагрузка access токена, выпущенного сервисом аккаунтов
type Claims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenParser struct {
	secret []byte
	issuer string
}

func NewTokenParser(secret, issuer string) *TokenParser {
	return &TokenParser{secret: []byte(secret), issuer: issuer}
}

// Parse validates the HS256 token and returns the actor it identifies.
func (p *TokenParser) Parse(tokenStr string) (domain.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return domain.Actor{}, domain.ErrUnauthenticated
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return domain.Actor{}, fmt.Errorf("%w: token without user id", domain.ErrUnauthenticated)
	}

	actor := domain.Actor{UserID: userID, Email: claims.Email}
	for _, r := range claims.Roles {
		if role, ok := domain.ParseRole(r); ok {
			actor.Roles = append(actor.Roles, role)
		}
	}
	return actor, nil
}

// NewToken issues a token for the actor. Used by local tooling and tests.
func (p *TokenParser) NewToken(actor domain.Actor, ttl time.Duration) (string, error) {
	if len(p.secret) == 0 {
		return "", errors.New("empty jwt secret")
	}
	roles := make([]string, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, string(r))
	}
	now := time.Now()
	claims := Claims{
		UserID: actor.UserID,
		Email:  actor.Email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func ExtractBearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
