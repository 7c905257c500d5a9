package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service verifies caller identity. Role policy lives in the route
// middleware, not here.
type Service struct {
	users UserDirectory
	jwt   TokenIssuer
}

func NewService(users UserDirectory, jwt TokenIssuer) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserInfo: UserPublic{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*UserPublic, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return &UserPublic{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}, nil
}
