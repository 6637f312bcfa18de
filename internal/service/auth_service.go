package service

import (
	"errors"
	"time"

	"drouple_backend/internal/config"
	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"
	"drouple_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo   *repository.UserRepository
	ChurchRepo *repository.ChurchRepository
	Cfg        *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, churchRepo *repository.ChurchRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		ChurchRepo: churchRepo,
		Cfg:        cfg,
	}
}

// Register creates a member account under the church identified by slug.
func (s *AuthService) Register(user *model.User, churchSlug string) error {
	church, err := s.ChurchRepo.FindBySlug(churchSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChurchNotFound
		}
		return err
	}

	_, err = s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.ChurchID = church.ID
	if user.Role == "" {
		user.Role = model.Member
	}
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if user.Disabled {
		return "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	// Login still succeeds when only the timestamp write fails.
	user.LastLogin = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		logger.Log.Warn("recording last login failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
