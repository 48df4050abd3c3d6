package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yachai_backend/internal/model"
	"yachai_backend/internal/repository"
	"yachai_backend/internal/util"
	"yachai_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GameService 游戏会话编排：开局生成内容、结算计分与奖励
type GameService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	statsRepo   *repository.StatisticsRepository

	content      *ContentService
	achievements *AchievementService
}

func NewGameService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	statsRepo *repository.StatisticsRepository,
	content *ContentService,
	achievements *AchievementService,
) *GameService {
	return &GameService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		statsRepo:    statsRepo,
		content:      content,
		achievements: achievements,
	}
}

// SubmitResult 结算响应：得分、奖励、反馈与本局新解锁的成就
type SubmitResult struct {
	SessionID       string                   `json:"session_id"`
	Score           int                      `json:"score"`
	MaxScore        int                      `json:"max_score"`
	Percentage      float64                  `json:"percentage"`
	CoinsEarned     int                      `json:"coins_earned"`
	Feedback        string                   `json:"feedback"`
	Intelligence    model.IntelligenceVector `json:"intelligence_analysis"`
	Recommendations []string                 `json:"recommendations"`
	Achievements    []model.Achievement      `json:"new_achievements,omitempty"`
}

// StartGame 生成游戏内容并创建会话
func (s *GameService) StartGame(ctx context.Context, userID uint, topic string, gameType model.GameType, difficulty model.DifficultyLevel, ageRange string) (*model.GameSession, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	content, err := s.content.GenerateGameContent(ctx, topic, gameType, difficulty, ageRange)
	if err != nil {
		return nil, err
	}

	session := &model.GameSession{
		UserID:     userID,
		Topic:      topic,
		GameType:   gameType,
		Difficulty: difficulty,
		AgeRange:   content.AgeRange,
		Content:    content,
		StartedAt:  time.Now(),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	logger.Log.Info("游戏会话创建",
		zap.String("session_id", session.ID),
		zap.Uint("user_id", userID),
		zap.String("game_type", string(gameType)),
		zap.String("topic", topic))

	return session, nil
}

// SubmitGame 结算一局：计分、发币、升级、反馈、统计与成就。
// 已结算的会话拒绝重复提交
func (s *GameService) SubmitGame(ctx context.Context, userID uint, sessionID string, answers []model.GameAnswer) (*SubmitResult, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	if session.Completed {
		return nil, util.ErrSessionCompleted
	}
	if session.Content == nil {
		return nil, util.ErrSessionNoContent
	}

	score, maxScore, intelligence := CalculateScore(session.Content, answers, session.GameType)
	percentage := model.ScorePercentage(score, maxScore)
	coins := score / 10

	if err := s.sessionRepo.Complete(session, score, answers); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddScore(userID, score, coins); err != nil {
		return nil, err
	}

	// 反馈文案失败降级为固定文案，不阻塞结算
	feedback, err := s.content.GenerateFeedback(ctx, session.Topic, score, maxScore, session.GameType)
	if err != nil {
		logger.Log.Warn("生成反馈失败，使用默认文案",
			zap.String("session_id", sessionID), zap.Error(err))
		feedback = fmt.Sprintf("¡Buen trabajo! Obtuviste %d de %d puntos. 🎉", score, maxScore)
	}

	recommendations := buildRecommendations(percentage, session.Topic)

	result := &model.GameResult{
		SessionID:            session.ID,
		UserID:               userID,
		Topic:                session.Topic,
		GameType:             session.GameType,
		Score:                score,
		MaxScore:             maxScore,
		Percentage:           percentage,
		CoinsEarned:          coins,
		Feedback:             feedback,
		IntelligenceAnalysis: intelligence,
		Recommendations:      recommendations,
	}
	if err := s.sessionRepo.CreateResult(result); err != nil {
		return nil, err
	}

	if err := s.statsRepo.Record(userID, session.GameType, intelligence); err != nil {
		logger.Log.Error("更新统计失败", zap.Uint("user_id", userID), zap.Error(err))
	}

	var unlocked []model.Achievement
	if stats, err := s.statsRepo.FindByUser(userID); err == nil {
		unlocked = s.achievements.CheckAfterGame(userID, stats, score)
	} else {
		logger.Log.Error("查询统计失败，跳过成就检查", zap.Uint("user_id", userID), zap.Error(err))
	}

	logger.Log.Info("游戏会话结算",
		zap.String("session_id", sessionID),
		zap.Uint("user_id", userID),
		zap.Int("score", score),
		zap.Int("max_score", maxScore),
		zap.Int("coins", coins))

	return &SubmitResult{
		SessionID:       session.ID,
		Score:           score,
		MaxScore:        maxScore,
		Percentage:      percentage,
		CoinsEarned:     coins,
		Feedback:        feedback,
		Intelligence:    intelligence,
		Recommendations: recommendations,
		Achievements:    unlocked,
	}, nil
}

// GetSession 查询会话。会话结果可被其他登录用户查看，提交仍只允许本人
func (s *GameService) GetSession(sessionID string) (*model.GameSession, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// ListSessions 按开始时间倒序返回用户最近的会话
func (s *GameService) ListSessions(userID uint, limit int) ([]model.GameSession, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.sessionRepo.ListByUser(userID, limit)
}

// 按正确率分档给学习建议
func buildRecommendations(percentage float64, topic string) []string {
	switch {
	case percentage >= 80:
		return []string{
			fmt.Sprintf("¡Dominas muy bien %s! Prueba un nivel más difícil.", topic),
			"Explora un tema nuevo para seguir aprendiendo.",
		}
	case percentage >= 60:
		return []string{
			fmt.Sprintf("Vas muy bien con %s. Repasa las preguntas que fallaste.", topic),
			"Intenta el mismo tema otra vez para mejorar tu puntaje.",
		}
	default:
		return []string{
			fmt.Sprintf("Sigue practicando %s, ¡cada intento cuenta!", topic),
			"Prueba el nivel fácil para reforzar lo básico.",
			"Pide ayuda a tu profesor o familia si algo no queda claro.",
		}
	}
}
