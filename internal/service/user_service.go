package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"yachai_backend/internal/model"
	"yachai_backend/internal/repository"
	"yachai_backend/internal/util"
	"yachai_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "yachai:leaderboard"
	leaderboardCacheTTL = 60 * time.Second
	leaderboardSize     = 10
)

// UserService 用户资料、统计、成就与排行榜
type UserService struct {
	userRepo  *repository.UserRepository
	statsRepo *repository.StatisticsRepository
	content   *ContentService
	rdb       *redis.Client
}

func NewUserService(userRepo *repository.UserRepository, statsRepo *repository.StatisticsRepository, content *ContentService, rdb *redis.Client) *UserService {
	return &UserService{userRepo: userRepo, statsRepo: statsRepo, content: content, rdb: rdb}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(userID uint, avatarURL string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	user.Avatar = avatarURL
	return s.userRepo.Update(user)
}

// GetStatistics 未玩过任何游戏的用户返回空统计而非404
func (s *UserService) GetStatistics(userID uint) (*model.UserStatistics, error) {
	stats, err := s.statsRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserStatistics{UserID: userID}, nil
		}
		return nil, err
	}
	return stats, nil
}

// GetIntelligenceProfile 多元智能画像，需要至少一局已结算的游戏
func (s *UserService) GetIntelligenceProfile(userID uint) (*IntelligenceProfile, error) {
	stats, err := s.statsRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStatsNotFound
		}
		return nil, err
	}
	return s.content.AnalyzeIntelligenceProfile(stats), nil
}

// LeaderboardEntry 排行榜条目（不含敏感字段）
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	TotalScore int    `json:"total_score"`
	Level      int    `json:"level"`
}

// GetLeaderboard 总分前十。Redis缓存60秒，缓存不可用时直接查库
func (s *UserService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if jsonErr := json.Unmarshal([]byte(cached), &entries); jsonErr == nil {
				return entries, nil
			}
		}
	}

	users, err := s.userRepo.Leaderboard(leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			UserID:     u.ID,
			Username:   u.Username,
			Avatar:     u.Avatar,
			TotalScore: u.TotalScore,
			Level:      u.Level,
		})
	}

	if s.rdb != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.rdb.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("写入排行榜缓存失败", zap.Error(err))
			}
		}
	}

	return entries, nil
}
