package repository

import (
	"time"

	"yachai_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// AddScore 累加总分和金币并重算等级
func (r *UserRepository) AddScore(userID uint, points, coins int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		user.TotalScore += points
		user.Coins += coins
		user.Level = model.CalculateLevel(user.TotalScore)
		return tx.Save(&user).Error
	})
}

// Leaderboard 按总分降序取前limit名
func (r *UserRepository) Leaderboard(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Select("id", "username", "avatar", "total_score", "level").
		Order("total_score DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
