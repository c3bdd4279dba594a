package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/pkg/auth"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
)

// Service authenticates identities and issues role-carrying tokens.
type Service struct {
	identityRepo repository.IdentityRepository
	jwtSvc       auth.JWTService
}

func NewService(identityRepo repository.IdentityRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		identityRepo: identityRepo,
		jwtSvc:       jwtSvc,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	identity, err := s.identityRepo.GetByUsername(ctx, username)
	if err != nil {
		// Same message whether the username or the password is wrong.
		return nil, apperrors.Unauthenticated(nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthenticated(nil)
	}

	token, err := s.jwtSvc.GenerateAccessToken(identity)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{AccessToken: token}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthenticated(err)
	}
	return claims, nil
}
