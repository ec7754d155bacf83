package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/internal/repository"
	"inkwell-report-backend/utilities"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthTokens is an access/refresh token pair.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService interface
type AuthService interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, *AuthTokens, error)
	Refresh(refreshToken string) (*AuthTokens, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *utilities.JWTManager
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository, tokens *utilities.JWTManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(user *model.User) error {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email == "" {
		return &ValidationError{Fields: []string{"email"}, Message: "missing required fields"}
	}
	if user.Password == "" {
		return &ValidationError{Fields: []string{"password"}, Message: "password cannot be empty"}
	}

	existing, err := s.userRepo.GetUserByEmail(user.Email)
	if err == nil && existing != nil {
		return ErrEmailInUse
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = "teacher"
	}

	// A concurrent registration can pass the lookup above and lose on the unique index.
	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailInUse
		}
		return fmt.Errorf("failed to store user in database: %w", err)
	}
	user.Password = ""
	return nil
}

// Login checks the password against the stored bcrypt hash and issues tokens.
func (s *authService) Login(email, password string) (*model.User, *AuthTokens, error) {
	user, err := s.userRepo.GetUserByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	user.Password = ""

	access, refresh, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(refreshToken string) (*AuthTokens, error) {
	access, refresh, err := s.tokens.RefreshTokens(refreshToken)
	if err != nil {
		return nil, err
	}
	return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
