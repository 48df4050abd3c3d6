package repository

import (
	"errors"

	"yachai_backend/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

func (r *StatisticsRepository) FindByUser(userID uint) (*model.UserStatistics, error) {
	var stats model.UserStatistics
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Record 累加一次已完成游戏：不存在则创建统计行
func (r *StatisticsRepository) Record(userID uint, gameType model.GameType, intelligence model.IntelligenceVector) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var stats model.UserStatistics
		err := tx.Where("user_id = ?", userID).First(&stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats = model.UserStatistics{UserID: userID}
		} else if err != nil {
			return err
		}

		stats.GamesPlayed++
		switch gameType {
		case model.GameTrivia:
			stats.TriviaCount++
		case model.GameAdventure:
			stats.AdventureCount++
		case model.GameMarket:
			stats.MarketCount++
		}
		stats.AddIntelligence(intelligence)

		return tx.Save(&stats).Error
	})
}
