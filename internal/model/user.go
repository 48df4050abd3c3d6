package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Username   string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Avatar     string    `gorm:"size:255" json:"avatar"`
	Email      string    `gorm:"size:100" json:"email,omitempty"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	TotalScore int       `gorm:"default:0" json:"total_score"`
	Coins      int       `gorm:"default:0" json:"coins"` // 游戏金币，每10分兑换1枚
	Level      int       `gorm:"default:1" json:"level"`
	LastLogin  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// CalculateLevel 每100分升1级
func CalculateLevel(totalScore int) int {
	level := totalScore/100 + 1
	if level < 1 {
		level = 1
	}
	return level
}

// UserStatistics 用户的累计游戏统计与八大智能得分
type UserStatistics struct {
	BaseModel
	UserID         uint `gorm:"uniqueIndex;not null" json:"user_id"`
	GamesPlayed    int  `gorm:"default:0" json:"games_played"`
	TriviaCount    int  `gorm:"default:0" json:"trivia_count"`
	AdventureCount int  `gorm:"default:0" json:"adventure_count"`
	MarketCount    int  `gorm:"default:0" json:"market_count"`

	LinguisticScore          int `gorm:"default:0" json:"linguistic_score"`
	LogicalMathematicalScore int `gorm:"default:0" json:"logical_mathematical_score"`
	SpatialScore             int `gorm:"default:0" json:"spatial_score"`
	NaturalisticScore        int `gorm:"default:0" json:"naturalistic_score"`
	InterpersonalScore       int `gorm:"default:0" json:"interpersonal_score"`
	IntrapersonalScore       int `gorm:"default:0" json:"intrapersonal_score"`
	MusicalScore             int `gorm:"default:0" json:"musical_score"`
	BodilyKinestheticScore   int `gorm:"default:0" json:"bodily_kinesthetic_score"`
}

func (UserStatistics) TableName() string {
	return "user_statistics"
}

// IntelligenceScores 以向量形式返回累计智能得分
func (s *UserStatistics) IntelligenceScores() IntelligenceVector {
	v := NewIntelligenceVector()
	v["linguistic"] = s.LinguisticScore
	v["logical_mathematical"] = s.LogicalMathematicalScore
	v["spatial"] = s.SpatialScore
	v["naturalistic"] = s.NaturalisticScore
	v["interpersonal"] = s.InterpersonalScore
	v["intrapersonal"] = s.IntrapersonalScore
	v["musical"] = s.MusicalScore
	v["bodily_kinesthetic"] = s.BodilyKinestheticScore
	return v
}

// AddIntelligence 将一次游戏的智能得分累加进统计
func (s *UserStatistics) AddIntelligence(v IntelligenceVector) {
	s.LinguisticScore += v["linguistic"]
	s.LogicalMathematicalScore += v["logical_mathematical"]
	s.SpatialScore += v["spatial"]
	s.NaturalisticScore += v["naturalistic"]
	s.InterpersonalScore += v["interpersonal"]
	s.IntrapersonalScore += v["intrapersonal"]
	s.MusicalScore += v["musical"]
	s.BodilyKinestheticScore += v["bodily_kinesthetic"]
}

// Achievement 用户获得的成就
type Achievement struct {
	BaseModel
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Type        string `gorm:"size:50;not null" json:"type"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:255" json:"description"`
}

func (Achievement) TableName() string {
	return "achievements"
}
