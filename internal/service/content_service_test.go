package service

import (
	"context"
	"errors"
	"testing"

	"yachai_backend/internal/config"
	"yachai_backend/internal/model"
	"yachai_backend/internal/util"
	"yachai_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitTestLogger()
}

// fakeChat 按脚本顺序返回应答，记录收到的提示词
type fakeChat struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (f *fakeChat) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func testGames() config.GamesConfig {
	return config.GamesConfig{
		TriviaQuestionsCount: 2,
		AdventureScenesCount: 2,
		MarketMissionsCount:  1,
		DefaultAgeRange:      "8-14",
		LocalContext:         "Perú",
	}
}

const validTriviaJSON = `[
  {"question": "¿Cuál es el animal nacional del Perú?",
   "options": ["La vicuña", "El cóndor", "La llama"],
   "correct_answer": 0,
   "explanation": "La vicuña aparece en el escudo.",
   "intelligence_type": "naturalistic"},
  {"question": "¿Cuántas patas tiene una araña?",
   "options": ["6", "8", "10", "4"],
   "correct_answer": 1,
   "explanation": "Las arañas tienen 8 patas.",
   "intelligence_type": "logical_mathematical"}
]`

func TestGenerateGameContent_Trivia(t *testing.T) {
	chat := &fakeChat{responses: []string{"```json\n" + validTriviaJSON + "\n```"}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "animales", model.GameTrivia, model.DifficultyEasy, "")
	require.NoError(t, err)
	require.NoError(t, content.Validate())

	assert.Equal(t, model.GameTrivia, content.GameType)
	assert.Equal(t, "8-14", content.AgeRange) // 默认年龄段
	assert.Equal(t, "Perú", content.LocalContext)
	require.Len(t, content.TriviaQuestions, 2)
	assert.Equal(t, model.DifficultyEasy, content.TriviaQuestions[0].Difficulty)
	assert.Equal(t, 1, chat.calls)
}

func TestGenerateGameContent_TriviaSingleObjectCoerced(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"question": "¿Qué es esto?", "options": ["a","b","c"], "correct_answer": 2, "intelligence_type": "spatial"}`,
	}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "formas", model.GameTrivia, model.DifficultyMedium, "8-10")
	require.NoError(t, err)
	require.Len(t, content.TriviaQuestions, 1)
}

func TestGenerateGameContent_TriviaDefaultIntelligenceType(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`[{"question": "q", "options": ["a","b","c"], "correct_answer": 0, "intelligence_type": "telepathic"}]`,
	}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "x", model.GameTrivia, model.DifficultyMedium, "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultIntelligenceType, content.TriviaQuestions[0].IntelligenceType)
}

func TestGenerateGameContent_RetryWithStricterPrompt(t *testing.T) {
	chat := &fakeChat{responses: []string{
		"lo siento, no puedo generar eso",
		validTriviaJSON,
	}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "animales", model.GameTrivia, model.DifficultyEasy, "")
	require.NoError(t, err)
	require.Len(t, content.TriviaQuestions, 2)

	require.Equal(t, 2, chat.calls)
	assert.NotContains(t, chat.prompts[0], "ÚNICAMENTE")
	assert.Contains(t, chat.prompts[1], "ÚNICAMENTE")
}

func TestGenerateGameContent_GenerationErrorAfterRetry(t *testing.T) {
	chat := &fakeChat{responses: []string{"basura", "más basura"}}
	svc := NewContentService(chat, testGames())

	_, err := svc.GenerateGameContent(context.Background(), "x", model.GameTrivia, model.DifficultyMedium, "")
	require.Error(t, err)

	var genErr *util.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "trivia", genErr.GameType)
	assert.Equal(t, 2, chat.calls)
}

func TestGenerateGameContent_TransportErrorNotRetried(t *testing.T) {
	chat := &fakeChat{errs: []error{errors.New("connection refused")}}
	svc := NewContentService(chat, testGames())

	_, err := svc.GenerateGameContent(context.Background(), "x", model.GameTrivia, model.DifficultyMedium, "")
	require.Error(t, err)

	var genErr *util.GenerationError
	assert.False(t, errors.As(err, &genErr), "transport errors are not generation errors")
	assert.Equal(t, 1, chat.calls)
}

const validAdventureJSON = `{
  "title": "El viaje al río",
  "introduction": "Hoy exploramos el río Amazonas.",
  "scenes": [
    {"scene_number": 1, "description": "d1",
     "choices": [{"text": "seguir", "next_scene": 2, "is_correct": true, "points": 10, "feedback": "bien"}],
     "learning_point": "p1"},
    {"scene_number": 2, "description": "d2",
     "choices": [{"text": "volver", "next_scene": 2, "is_correct": false, "points": 5, "feedback": "casi"}],
     "learning_point": "p2"}
  ],
  "conclusion": "Fin.",
  "total_scenes": 2
}`

func TestGenerateGameContent_Adventure(t *testing.T) {
	chat := &fakeChat{responses: []string{validAdventureJSON}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "el río", model.GameAdventure, model.DifficultyMedium, "")
	require.NoError(t, err)
	require.NoError(t, content.Validate())

	require.NotNil(t, content.AdventureStory)
	assert.Equal(t, 2, content.AdventureStory.TotalScenes)
	assert.Len(t, content.AdventureStory.Scenes, 2)
}

func TestAdventurePrompt_Rendering(t *testing.T) {
	svc := NewContentService(&fakeChat{}, testGames())

	prompt := svc.adventurePrompt("la selva", model.DifficultyMedium, "8-14")
	assert.Contains(t, prompt, "sobre la selva")
	assert.Contains(t, prompt, "Contexto: Perú")
	assert.Contains(t, prompt, "de 2 escenas")
	assert.Contains(t, prompt, `"total_scenes": 2`)
	assert.NotContains(t, prompt, "%!")
}

func TestGenerateGameContent_AdventureScenesArrayRecovered(t *testing.T) {
	// 模型直接回场景数组时包装成完整故事
	raw := `[
  {"scene_number": 1, "description": "d1", "choices": []},
  {"scene_number": 2, "description": "d2", "choices": []}
]`
	chat := &fakeChat{responses: []string{raw}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "la selva", model.GameAdventure, model.DifficultyMedium, "")
	require.NoError(t, err)

	story := content.AdventureStory
	require.NotNil(t, story)
	assert.Contains(t, story.Title, "la selva")
	assert.Equal(t, 2, story.TotalScenes)
	assert.Equal(t, 1, chat.calls)
}

func TestGenerateGameContent_AdventureNonContiguousScenesFails(t *testing.T) {
	raw := `{"title": "t", "scenes": [
  {"scene_number": 1, "description": "d"},
  {"scene_number": 3, "description": "d"}
], "total_scenes": 2}`
	chat := &fakeChat{responses: []string{raw, raw}}
	svc := NewContentService(chat, testGames())

	_, err := svc.GenerateGameContent(context.Background(), "x", model.GameAdventure, model.DifficultyMedium, "")
	var genErr *util.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "adventure", genErr.GameType)
}

func TestGenerateGameContent_AdventureTotalScenesDefaulted(t *testing.T) {
	raw := `{"title": "t", "scenes": [{"scene_number": 1, "description": "d"}]}`
	chat := &fakeChat{responses: []string{raw}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "x", model.GameAdventure, model.DifficultyMedium, "")
	require.NoError(t, err)
	assert.Equal(t, 1, content.AdventureStory.TotalScenes)
	// 缺失的choices补成空列表
	assert.NotNil(t, content.AdventureStory.Scenes[0].Choices)
}

func TestGenerateGameContent_MarketFiltersUnknownCorrectItems(t *testing.T) {
	raw := `[{
  "mission_id": 1, "title": "Compra frutas", "description": "elige",
  "task_type": "selection",
  "items": [{"id": "item1", "name": "Manzana", "price": 2, "category": "fruta"},
            {"id": "item2", "name": "Papa", "price": 3, "category": "verdura"}],
  "correct_items": ["item1", "fantasma"],
  "points": 10,
  "intelligence_type": "logical_mathematical"
}]`
	chat := &fakeChat{responses: []string{raw}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "mercado", model.GameMarket, model.DifficultyMedium, "")
	require.NoError(t, err)
	require.NoError(t, content.Validate())

	require.Len(t, content.MarketMissions, 1)
	assert.Equal(t, []string{"item1"}, content.MarketMissions[0].CorrectItems)
}

func TestGenerateGameContent_MarketDedupesCorrectItems(t *testing.T) {
	raw := `[{
  "mission_id": 1, "title": "Compra frutas", "description": "elige",
  "task_type": "selection",
  "items": [{"id": "item1", "name": "Manzana", "price": 2, "category": "fruta"},
            {"id": "item2", "name": "Papa", "price": 3, "category": "verdura"}],
  "correct_items": ["item1", "item1", "item2"],
  "points": 10,
  "intelligence_type": "logical_mathematical"
}]`
	chat := &fakeChat{responses: []string{raw}}
	svc := NewContentService(chat, testGames())

	content, err := svc.GenerateGameContent(context.Background(), "mercado", model.GameMarket, model.DifficultyMedium, "")
	require.NoError(t, err)

	require.Len(t, content.MarketMissions, 1)
	assert.Equal(t, []string{"item1", "item2"}, content.MarketMissions[0].CorrectItems)
}

func TestGenerateGameContent_UnknownType(t *testing.T) {
	svc := NewContentService(&fakeChat{}, testGames())
	_, err := svc.GenerateGameContent(context.Background(), "x", model.GameType("puzzle"), model.DifficultyMedium, "")
	require.Error(t, err)
}

func TestGenerateFeedback_TrimsOutput(t *testing.T) {
	chat := &fakeChat{responses: []string{"\n  ¡Muy bien! 🎉  \n"}}
	svc := NewContentService(chat, testGames())

	feedback, err := svc.GenerateFeedback(context.Background(), "animales", 25, 30, model.GameTrivia)
	require.NoError(t, err)
	assert.Equal(t, "¡Muy bien! 🎉", feedback)
	assert.Contains(t, chat.prompts[0], "25 de 30")
}

func TestAnalyzeIntelligenceProfile_FirstMaxWins(t *testing.T) {
	svc := NewContentService(&fakeChat{}, testGames())

	stats := &model.UserStatistics{}
	stats.AddIntelligence(model.IntelligenceVector{"naturalistic": 30, "spatial": 30})

	profile := svc.AnalyzeIntelligenceProfile(stats)
	// 平局时按固定分类顺序取靠前者：spatial在naturalistic之前
	assert.Equal(t, "spatial", profile.Strongest)
	assert.NotEmpty(t, profile.StrongestName)
	assert.NotEmpty(t, profile.ProfileDescription)
	assert.Len(t, profile.Scores, len(model.IntelligenceTypes))
}

func TestAnalyzeIntelligenceProfile_EmptyStats(t *testing.T) {
	svc := NewContentService(&fakeChat{}, testGames())

	profile := svc.AnalyzeIntelligenceProfile(&model.UserStatistics{})
	// 全零时取固定顺序第一个分类
	assert.Equal(t, model.IntelligenceTypes[0], profile.Strongest)
}
