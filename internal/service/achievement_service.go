package service

import (
	"yachai_backend/internal/model"
	"yachai_backend/pkg/logger"

	"go.uber.org/zap"
)

// AchievementStore 成就持久化接口，repository.AchievementRepository实现
type AchievementStore interface {
	Create(achievement *model.Achievement) error
	ListByUser(userID uint) ([]model.Achievement, error)
	HasType(userID uint, achievementType string) (bool, error)
}

// AchievementService 成就解锁。每种成就只发放一次
type AchievementService struct {
	achievementRepo AchievementStore
}

func NewAchievementService(achievementRepo AchievementStore) *AchievementService {
	return &AchievementService{achievementRepo: achievementRepo}
}

const (
	AchievementFirstGame    = "first_game"
	AchievementVeteran      = "veteran"
	AchievementPerfectScore = "perfect_score"
)

// CheckAfterGame 在一局结束后检查并发放成就，返回本局新解锁的成就。
// perfect_score看单局原始得分而不是百分比。发放失败只记日志，不影响结算流程
func (s *AchievementService) CheckAfterGame(userID uint, stats *model.UserStatistics, score int) []model.Achievement {
	var unlocked []model.Achievement

	if stats.GamesPlayed >= 1 {
		if a := s.unlock(userID, AchievementFirstGame, "Primera Aventura", "Completaste tu primer juego"); a != nil {
			unlocked = append(unlocked, *a)
		}
	}
	if stats.GamesPlayed >= 10 {
		if a := s.unlock(userID, AchievementVeteran, "Veterano", "Completaste 10 juegos"); a != nil {
			unlocked = append(unlocked, *a)
		}
	}
	if score >= 100 {
		if a := s.unlock(userID, AchievementPerfectScore, "Puntaje Perfecto", "Alcanzaste 100 puntos en una partida"); a != nil {
			unlocked = append(unlocked, *a)
		}
	}

	return unlocked
}

func (s *AchievementService) unlock(userID uint, achievementType, title, description string) *model.Achievement {
	has, err := s.achievementRepo.HasType(userID, achievementType)
	if err != nil {
		logger.Log.Error("查询成就失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	if has {
		return nil
	}

	achievement := &model.Achievement{
		UserID:      userID,
		Type:        achievementType,
		Title:       title,
		Description: description,
	}
	if err := s.achievementRepo.Create(achievement); err != nil {
		logger.Log.Error("保存成就失败", zap.Uint("user_id", userID),
			zap.String("type", achievementType), zap.Error(err))
		return nil
	}

	logger.Log.Info("成就解锁", zap.Uint("user_id", userID), zap.String("type", achievementType))
	return achievement
}

func (s *AchievementService) ListByUser(userID uint) ([]model.Achievement, error) {
	return s.achievementRepo.ListByUser(userID)
}
