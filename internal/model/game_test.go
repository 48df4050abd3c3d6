package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriviaQuestion_Validate(t *testing.T) {
	q := TriviaQuestion{Options: []string{"a", "b", "c"}, CorrectAnswer: 2}
	assert.NoError(t, q.Validate())

	q.CorrectAnswer = 3 // 源数据允许[0,3]，但3个选项时3越界
	assert.Error(t, q.Validate())

	q.CorrectAnswer = -1
	assert.Error(t, q.Validate())

	q = TriviaQuestion{Options: []string{"a", "b"}, CorrectAnswer: 0}
	assert.Error(t, q.Validate(), "two options are not enough")

	q = TriviaQuestion{Options: []string{"a", "b", "c", "d", "e"}, CorrectAnswer: 0}
	assert.Error(t, q.Validate(), "five options are too many")
}

func TestAdventureStory_Validate(t *testing.T) {
	story := AdventureStory{Scenes: []AdventureScene{
		{SceneNumber: 1}, {SceneNumber: 2}, {SceneNumber: 3},
	}}
	assert.NoError(t, story.Validate())

	story.Scenes[1].SceneNumber = 5
	assert.Error(t, story.Validate())

	assert.Error(t, (&AdventureStory{}).Validate())
}

func TestMarketMission_Validate(t *testing.T) {
	m := MarketMission{
		Items:        []MarketItem{{ID: "a"}, {ID: "b"}},
		CorrectItems: []string{"a"},
	}
	assert.NoError(t, m.Validate())

	m.CorrectItems = []string{"a", "z"}
	assert.Error(t, m.Validate())
}

func TestGameContent_ValidateExactlyOnePayload(t *testing.T) {
	content := NewTriviaContent("x", DifficultyEasy, "8-14", "Perú", []TriviaQuestion{
		{Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
	})
	require.NoError(t, content.Validate())

	// 同时携带两种载荷非法
	content.AdventureStory = &AdventureStory{Scenes: []AdventureScene{{SceneNumber: 1}}}
	assert.Error(t, content.Validate())

	// 载荷与类型不匹配非法
	mismatched := &GameContent{GameType: GameAdventure, TriviaQuestions: []TriviaQuestion{
		{Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
	}}
	assert.Error(t, mismatched.Validate())
}

func TestIntelligenceVector_AddUnknownFallsBack(t *testing.T) {
	v := NewIntelligenceVector()
	v.Add("kinesthetic-typo", 7)
	assert.Equal(t, 7, v[DefaultIntelligenceType])

	v.Add("musical", 3)
	assert.Equal(t, 3, v["musical"])
	assert.Len(t, v, len(IntelligenceTypes))
}

func TestParseGameType(t *testing.T) {
	for _, s := range []string{"trivia", "adventure", "market"} {
		_, err := ParseGameType(s)
		assert.NoError(t, err)
	}
	_, err := ParseGameType("puzzle")
	assert.Error(t, err)
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(0))
	assert.Equal(t, 1, CalculateLevel(99))
	assert.Equal(t, 2, CalculateLevel(100))
	assert.Equal(t, 4, CalculateLevel(350))
}

func TestScorePercentage(t *testing.T) {
	assert.Equal(t, 0.0, ScorePercentage(10, 0), "zero max score is not an error")
	assert.InDelta(t, 66.7, ScorePercentage(20, 30), 0.1)
	assert.Equal(t, 100.0, ScorePercentage(30, 30))
}
