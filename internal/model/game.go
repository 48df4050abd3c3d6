package model

import (
	"fmt"
	"time"
)

// GameType 游戏类型
type GameType string

const (
	GameTrivia    GameType = "trivia"
	GameAdventure GameType = "adventure"
	GameMarket    GameType = "market"
)

func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case GameTrivia, GameAdventure, GameMarket:
		return GameType(s), nil
	}
	return "", fmt.Errorf("unknown game type %q", s)
}

// DifficultyLevel 难度等级，仅影响提示词，不影响计分
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

func ParseDifficulty(s string) (DifficultyLevel, error) {
	switch DifficultyLevel(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return DifficultyLevel(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// 八大多元智能分类，顺序固定（平局时取靠前者）
var IntelligenceTypes = []string{
	"linguistic",
	"logical_mathematical",
	"spatial",
	"naturalistic",
	"interpersonal",
	"intrapersonal",
	"musical",
	"bodily_kinesthetic",
}

const DefaultIntelligenceType = "logical_mathematical"

func IsIntelligenceType(s string) bool {
	for _, t := range IntelligenceTypes {
		if t == s {
			return true
		}
	}
	return false
}

// IntelligenceVector 各智能分类的得分，八个key始终全部存在
type IntelligenceVector map[string]int

func NewIntelligenceVector() IntelligenceVector {
	v := make(IntelligenceVector, len(IntelligenceTypes))
	for _, t := range IntelligenceTypes {
		v[t] = 0
	}
	return v
}

// Add 给指定分类加分，未知分类计入默认分类
func (v IntelligenceVector) Add(intelligenceType string, points int) {
	if !IsIntelligenceType(intelligenceType) {
		intelligenceType = DefaultIntelligenceType
	}
	v[intelligenceType] += points
}

// TriviaQuestion 单选知识问答题
type TriviaQuestion struct {
	Question         string          `json:"question"`
	Options          []string        `json:"options"`
	CorrectAnswer    int             `json:"correct_answer"`
	Explanation      string          `json:"explanation"`
	Difficulty       DifficultyLevel `json:"difficulty"`
	IntelligenceType string          `json:"intelligence_type"`
}

func (q *TriviaQuestion) Validate() error {
	if len(q.Options) < 3 || len(q.Options) > 4 {
		return fmt.Errorf("trivia question needs 3-4 options, got %d", len(q.Options))
	}
	// 正确答案下标必须落在选项范围内（比源数据声明的[0,3]更严格）
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correct_answer %d out of range for %d options", q.CorrectAnswer, len(q.Options))
	}
	return nil
}

// AdventureChoice 冒险场景中的一个选项
type AdventureChoice struct {
	Text      string `json:"text"`
	NextScene int    `json:"next_scene"`
	IsCorrect bool   `json:"is_correct"`
	Points    int    `json:"points"`
	Feedback  string `json:"feedback,omitempty"`
}

// AdventureScene 冒险故事的一幕，scene_number从1开始连续编号
type AdventureScene struct {
	SceneNumber   int               `json:"scene_number"`
	Description   string            `json:"description"`
	Choices       []AdventureChoice `json:"choices"`
	LearningPoint string            `json:"learning_point"`
}

// AdventureStory 完整的互动冒险故事
type AdventureStory struct {
	Title        string           `json:"title"`
	Introduction string           `json:"introduction"`
	Scenes       []AdventureScene `json:"scenes"`
	Conclusion   string           `json:"conclusion"`
	TotalScenes  int              `json:"total_scenes"`
}

func (s *AdventureStory) Validate() error {
	if len(s.Scenes) == 0 {
		return fmt.Errorf("adventure story has no scenes")
	}
	for i, scene := range s.Scenes {
		if scene.SceneNumber != i+1 {
			return fmt.Errorf("scene numbers must be contiguous from 1, scene at index %d has number %d", i, scene.SceneNumber)
		}
	}
	return nil
}

// MarketItem 市场游戏中的商品
type MarketItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

// MarketMission 市场游戏任务。task_type仅作提示用途，计分逻辑对所有类型一致
type MarketMission struct {
	MissionID        int          `json:"mission_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	TaskType         string       `json:"task_type"`
	Items            []MarketItem `json:"items"`
	CorrectItems     []string     `json:"correct_items"`
	Points           int          `json:"points"`
	Hint             string       `json:"hint"`
	IntelligenceType string       `json:"intelligence_type"`
}

func (m *MarketMission) Validate() error {
	ids := make(map[string]bool, len(m.Items))
	for _, item := range m.Items {
		ids[item.ID] = true
	}
	for _, id := range m.CorrectItems {
		if !ids[id] {
			return fmt.Errorf("correct item %q not present in mission items", id)
		}
	}
	return nil
}

// GameContent AI生成的游戏内容。按game_type区分载荷，构造后不可变，
// 三个载荷字段中始终只有与game_type对应的那个被填充（由构造函数保证，Validate兜底）
type GameContent struct {
	Topic           string           `json:"topic"`
	GameType        GameType         `json:"game_type"`
	Difficulty      DifficultyLevel  `json:"difficulty"`
	TriviaQuestions []TriviaQuestion `json:"trivia_questions,omitempty"`
	AdventureStory  *AdventureStory  `json:"adventure_story,omitempty"`
	MarketMissions  []MarketMission  `json:"market_missions,omitempty"`
	GeneratedAt     time.Time        `json:"generated_at"`
	LocalContext    string           `json:"local_context"`
	AgeRange        string           `json:"age_range"`
}

func NewTriviaContent(topic string, difficulty DifficultyLevel, ageRange, localContext string, questions []TriviaQuestion) *GameContent {
	return &GameContent{
		Topic:           topic,
		GameType:        GameTrivia,
		Difficulty:      difficulty,
		TriviaQuestions: questions,
		GeneratedAt:     time.Now(),
		LocalContext:    localContext,
		AgeRange:        ageRange,
	}
}

func NewAdventureContent(topic string, difficulty DifficultyLevel, ageRange, localContext string, story *AdventureStory) *GameContent {
	return &GameContent{
		Topic:          topic,
		GameType:       GameAdventure,
		Difficulty:     difficulty,
		AdventureStory: story,
		GeneratedAt:    time.Now(),
		LocalContext:   localContext,
		AgeRange:       ageRange,
	}
}

func NewMarketContent(topic string, difficulty DifficultyLevel, ageRange, localContext string, missions []MarketMission) *GameContent {
	return &GameContent{
		Topic:          topic,
		GameType:       GameMarket,
		Difficulty:     difficulty,
		MarketMissions: missions,
		GeneratedAt:    time.Now(),
		LocalContext:   localContext,
		AgeRange:       ageRange,
	}
}

// Validate 校验载荷与game_type一一对应且自身合法
func (c *GameContent) Validate() error {
	populated := 0
	if len(c.TriviaQuestions) > 0 {
		populated++
	}
	if c.AdventureStory != nil {
		populated++
	}
	if len(c.MarketMissions) > 0 {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("game content must carry exactly one payload, has %d", populated)
	}

	switch c.GameType {
	case GameTrivia:
		if len(c.TriviaQuestions) == 0 {
			return fmt.Errorf("trivia content without questions")
		}
		for i := range c.TriviaQuestions {
			if err := c.TriviaQuestions[i].Validate(); err != nil {
				return fmt.Errorf("question %d: %w", i, err)
			}
		}
	case GameAdventure:
		if c.AdventureStory == nil {
			return fmt.Errorf("adventure content without story")
		}
		return c.AdventureStory.Validate()
	case GameMarket:
		if len(c.MarketMissions) == 0 {
			return fmt.Errorf("market content without missions")
		}
		for i := range c.MarketMissions {
			if err := c.MarketMissions[i].Validate(); err != nil {
				return fmt.Errorf("mission %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown game type %q", c.GameType)
	}
	return nil
}

// GameAnswer 玩家提交的一条答案。不同游戏类型使用不同字段：
// trivia用selected_answer（按提交顺序与题目一一对应），
// adventure用scene_number+choice_index，market用mission_id+selected_items
type GameAnswer struct {
	SelectedAnswer *int     `json:"selected_answer,omitempty"`
	SceneNumber    int      `json:"scene_number,omitempty"`
	ChoiceIndex    int      `json:"choice_index,omitempty"`
	MissionID      int      `json:"mission_id,omitempty"`
	SelectedItems  []string `json:"selected_items,omitempty"`
}
