package service

import (
	"errors"

	"yachai_backend/internal/config"
	"yachai_backend/internal/model"
	"yachai_backend/internal/repository"
	"yachai_backend/internal/util"
	"yachai_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册与登录
type AuthService struct {
	userRepo *repository.UserRepository
	jwt      config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, jwt config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwt}
}

// Register 创建用户，用户名唯一
func (s *AuthService) Register(username, password, email, avatar string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: string(hashed),
		Email:    email,
		Avatar:   avatar,
		Level:    1,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("用户注册成功", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Login 校验凭据并签发JWT
func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.jwt.Secret, s.jwt.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("更新最后登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	logger.Log.Info("用户登录", zap.Uint("user_id", user.ID), zap.String("username", username))
	return token, user, nil
}
