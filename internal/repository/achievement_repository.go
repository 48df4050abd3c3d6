package repository

import (
	"yachai_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) Create(achievement *model.Achievement) error {
	return r.DB.Create(achievement).Error
}

func (r *AchievementRepository) ListByUser(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Find(&achievements).Error
	return achievements, err
}

// HasType 判断用户是否已有某类型成就，避免重复授予
func (r *AchievementRepository) HasType(userID uint, achievementType string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Achievement{}).
		Where("user_id = ? AND type = ?", userID, achievementType).
		Count(&count).Error
	return count > 0, err
}
