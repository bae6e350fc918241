package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resqlink/dispatch-api/internal/model"
)

// TokenService resolves bearer tokens to the dispatcher identity they carry.
// Authentication itself happens upstream; this service only validates the
// signature and extracts the claims the audit trail needs.
type TokenService interface {
	ValidateToken(token string) (*model.Dispatcher, error)
}

type tokenService struct {
	secret []byte
}

func NewTokenService(secret string) TokenService {
	return &tokenService{secret: []byte(secret)}
}

func (s *tokenService) ValidateToken(tokenString string) (*model.Dispatcher, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	name, _ := claims["name"].(string)
	phone, _ := claims["phone"].(string)

	return &model.Dispatcher{
		ID:       sub,
		FullName: name,
		Phone:    phone,
	}, nil
}
