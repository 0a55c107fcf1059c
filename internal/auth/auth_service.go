package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "ecovale-hr/internal/auth/errors"
	"ecovale-hr/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Login(ctx context.Context, email, password string) (TokenPairResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPairResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPairResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and bad password.
		return TokenPairResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return TokenPairResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(u, time.Minute*15)
	if err != nil {
		return TokenPairResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u, time.Hour*24*7)
	if err != nil {
		return TokenPairResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapToAuthResponse(u),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPairResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return TokenPairResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenPairResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return TokenPairResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return TokenPairResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenPairResponse{}, autherrors.ErrUserNotFound
	}

	newAccessToken, err := s.generateToken(u, time.Minute*15)
	if err != nil {
		return TokenPairResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(u, time.Hour*24*7)
	if err != nil {
		return TokenPairResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenPairResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		User:         mapToAuthResponse(u),
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	resp := mapToAuthResponse(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     "STAFF",
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return AuthResponse{}, autherrors.ErrEmailTaken
	}

	return mapToAuthResponse(u), nil
}

func (s *service) generateToken(u *user.User, ttl time.Duration) (string, error) {
	employeeID := ""
	if u.EmployeeID != nil {
		employeeID = u.EmployeeID.String()
	}

	claims := jwt.MapClaims{
		"user_id":     u.ID.String(),
		"employee_id": employeeID,
		"role":        u.Role,
		"exp":         time.Now().Add(ttl).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u *user.User) AuthResponse {
	resp := AuthResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
	if u.EmployeeID != nil {
		resp.EmployeeID = u.EmployeeID.String()
	}
	return resp
}
