package model

import "time"

// GameSession 一次游戏会话：生成的内容在创建时落库，提交后写入得分与答案
type GameSession struct {
	UUIDBase
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Topic       string          `gorm:"size:200;not null" json:"topic"`
	GameType    GameType        `gorm:"type:enum('trivia','adventure','market');not null" json:"game_type"`
	Difficulty  DifficultyLevel `gorm:"type:enum('easy','medium','hard');default:'medium'" json:"difficulty"`
	AgeRange    string          `gorm:"size:20" json:"age_range"`
	Content     *GameContent    `gorm:"serializer:json;type:json" json:"content"`
	Answers     []GameAnswer    `gorm:"serializer:json;type:json" json:"answers,omitempty"`
	Score       int             `gorm:"default:0" json:"score"`
	Completed   bool            `gorm:"default:false" json:"completed"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}

// GameResult 一次已完成游戏的计分结果快照
type GameResult struct {
	BaseModel
	SessionID            string             `gorm:"size:36;index;not null" json:"session_id"`
	UserID               uint               `gorm:"index;not null" json:"user_id"`
	Topic                string             `gorm:"size:200" json:"topic"`
	GameType             GameType           `gorm:"size:20" json:"game_type"`
	Score                int                `json:"score"`
	MaxScore             int                `json:"max_score"`
	Percentage           float64            `json:"percentage"`
	CoinsEarned          int                `json:"coins_earned"`
	Feedback             string             `gorm:"type:text" json:"feedback"`
	IntelligenceAnalysis IntelligenceVector `gorm:"serializer:json;type:json" json:"intelligence_analysis"`
	Recommendations      []string           `gorm:"serializer:json;type:json" json:"recommendations"`
}

func (GameResult) TableName() string {
	return "game_results"
}

// Percentage 除零保护：max_score为0时按0%处理
func ScorePercentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	return float64(score) / float64(maxScore) * 100
}
