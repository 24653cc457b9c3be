package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/pkg/auth"
)

type RegisterInput struct {
	Username    string `json:"username" validate:"required,min=3,max=150,alphanum"`
	DisplayName string `json:"display_name" validate:"max=150"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService 最小化的账号与令牌服务
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (string, *model.User, error)
	// Viewer 将令牌解析为访问者，空令牌为匿名
	Viewer(ctx context.Context, token string) (model.Viewer, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, validate: NewValidator()}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return nil, ValidationError(err)
	}
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Invalid("invalid registration", map[string]string{"username": "username already taken"})
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: in.Username, DisplayName: in.DisplayName, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (string, *model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", nil, ValidationError(err)
	}
	u, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, apperr.Unauthorized("invalid username or password")
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return "", nil, apperr.Unauthorized("invalid username or password")
	}
	token, err := s.tokens.Generate(u.ID, u.IsStaff)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *authService) Viewer(ctx context.Context, token string) (model.Viewer, error) {
	if token == "" {
		return model.Anonymous(), nil
	}
	id, _, err := s.tokens.Parse(token)
	if err != nil {
		return model.Anonymous(), apperr.Wrap(apperr.KindUnauthorized, "invalid or expired token", err)
	}
	// 以库中状态为准，已删除的用户视为匿名
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return model.Anonymous(), apperr.Unauthorized("user no longer exists")
		}
		return model.Anonymous(), err
	}
	return model.Viewer{UserID: u.ID, IsStaff: u.IsStaff}, nil
}
