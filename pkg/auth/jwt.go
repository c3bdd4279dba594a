package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/model"
)

// JWTService issues and validates identity tokens.
type JWTService interface {
	GenerateAccessToken(identity *model.Identity) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
}

type jwtService struct {
	secret      []byte
	expiryHours int
}

func NewJWTService(secret string, expiryHours int) JWTService {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &jwtService{secret: []byte(secret), expiryHours: expiryHours}
}

func (s *jwtService) GenerateAccessToken(identity *model.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"identity_id": identity.ID.String(),
		"username":    identity.Username,
		"role":        string(identity.Role),
		"iat":         now.Unix(),
		"exp":         now.Add(time.Duration(s.expiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	rawID, ok := claims["identity_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	identityID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid identity ID in token")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	username, _ := claims["username"].(string)

	return &model.TokenClaims{
		IdentityID: identityID,
		Username:   username,
		Role:       model.Role(role),
	}, nil
}
