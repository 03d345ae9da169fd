package service

import (
	"context"
	"strings"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/repository"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	repo   repository.UserRepository
	config *config.Config
}

func CreateUserService(repo repository.UserRepository, config *config.Config) UserService {
	return &UserServiceImpl{repo: repo, config: config}
}

func (s *UserServiceImpl) Register(ctx context.Context, req dto.UserRequest, role string) (data dto.AuthResponse, err error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return
	}

	if !existing.ID.IsZero() {
		return data, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	user := domain.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		HashedPassword: string(hash),
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}

	user.ID, err = s.repo.AddUser(ctx, user)
	if err != nil {
		return
	}

	return s.authResponse(user)
}

// Login authenticates by email and password. A non-empty role restricts the login to accounts holding it.
func (s *UserServiceImpl) Login(ctx context.Context, req dto.LoginRequest, role string) (data dto.AuthResponse, err error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return data, errs.WithMessage(errs.ErrValidation, "Please provide an email and password")
	}

	invalid := errs.ErrInvalidCredentialsEmail
	if role == domain.RoleSeller {
		invalid = errs.ErrInvalidSellerLogin
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return
	}

	if user.ID.IsZero() || (role != "" && user.Role != role) {
		return data, invalid
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password))
	if err != nil {
		log.Ctx(ctx).Info().Str("component", "Login").Str("user_id", user.ID.Hex()).Msg("password mismatch")
		return data, invalid
	}

	return s.authResponse(user)
}

func (s *UserServiceImpl) GetMe(ctx context.Context, caller dto.Caller) (data dto.UserResponse, err error) {
	user, err := s.repo.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) GetSellers(ctx context.Context) (data []dto.UserResponse, err error) {
	sellers, err := s.repo.GetUsersByRole(ctx, domain.RoleSeller)
	if err != nil {
		return
	}

	data = make([]dto.UserResponse, 0, len(sellers))
	for _, seller := range sellers {
		data = append(data, toUserResponse(seller))
	}

	return data, nil
}

func (s *UserServiceImpl) authResponse(user domain.User) (data dto.AuthResponse, err error) {
	token, err := utils.CreateJWTToken(user.ID.Hex(), user.Role, s.config.JWTConfig.Secret, s.config.JWTConfig.Expire)
	if err != nil {
		return
	}

	return dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}
