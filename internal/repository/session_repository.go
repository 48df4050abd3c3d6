package repository

import (
	"time"

	"yachai_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.GameSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.GameSession, error) {
	var session model.GameSession
	err := r.DB.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Complete 写入得分与答案并标记完成
func (r *SessionRepository) Complete(session *model.GameSession, score int, answers []model.GameAnswer) error {
	now := time.Now()
	session.Score = score
	session.Answers = answers
	session.Completed = true
	session.CompletedAt = &now
	return r.DB.Save(session).Error
}

func (r *SessionRepository) ListByUser(userID uint, limit int) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.DB.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) CreateResult(result *model.GameResult) error {
	return r.DB.Create(result).Error
}
