package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"yachai_backend/internal/config"
	"yachai_backend/internal/model"
	"yachai_backend/internal/util"
	"yachai_backend/pkg/logger"
	"yachai_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ContentService 负责游戏内容的AI生成、反馈文案和多元智能画像。
// 不做任何持久化，生成结果由调用方落库
type ContentService struct {
	AI    ChatClient
	Games config.GamesConfig
}

func NewContentService(ai ChatClient, games config.GamesConfig) *ContentService {
	return &ContentService{AI: ai, Games: games}
}

// 解析失败重试一次时追加的强约束指令
const jsonOnlyReminder = "\n\nIMPORTANTE: Responde ÚNICAMENTE con JSON válido. Sin texto adicional, sin markdown, sin comentarios."

// GenerateGameContent 按游戏类型生成经过校验的内容。
// 模型输出经过 规整→解析→校验→映射 流水线；解析失败带强化指令重试一次，
// 仍失败则返回GenerationError（含游戏类型与底层解析错误）
func (s *ContentService) GenerateGameContent(ctx context.Context, topic string, gameType model.GameType, difficulty model.DifficultyLevel, ageRange string) (*model.GameContent, error) {
	if ageRange == "" {
		ageRange = s.Games.DefaultAgeRange
	}

	start := time.Now()
	content, err := s.generate(ctx, topic, gameType, difficulty, ageRange)
	monitoring.GenerationDuration.WithLabelValues(string(gameType)).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	monitoring.GenerationCounter.WithLabelValues(string(gameType), outcome).Inc()

	return content, err
}

func (s *ContentService) generate(ctx context.Context, topic string, gameType model.GameType, difficulty model.DifficultyLevel, ageRange string) (*model.GameContent, error) {
	switch gameType {
	case model.GameTrivia:
		questions, err := s.generateTrivia(ctx, topic, difficulty, ageRange)
		if err != nil {
			return nil, err
		}
		return model.NewTriviaContent(topic, difficulty, ageRange, s.Games.LocalContext, questions), nil

	case model.GameAdventure:
		story, err := s.generateAdventure(ctx, topic, difficulty, ageRange)
		if err != nil {
			return nil, err
		}
		return model.NewAdventureContent(topic, difficulty, ageRange, s.Games.LocalContext, story), nil

	case model.GameMarket:
		missions, err := s.generateMarket(ctx, topic, difficulty, ageRange)
		if err != nil {
			return nil, err
		}
		return model.NewMarketContent(topic, difficulty, ageRange, s.Games.LocalContext, missions), nil
	}

	return nil, fmt.Errorf("unknown game type %q", gameType)
}

// ========== Trivia ==========

func (s *ContentService) triviaPrompt(topic string, difficulty model.DifficultyLevel, ageRange string) string {
	return fmt.Sprintf(`Eres un experto educador creando preguntas de trivia para niños de %s años en %s.

Tema: %s
Nivel: %s
Cantidad: %d preguntas

IMPORTANTE: Usa ejemplos y contexto local de %s (lugares, animales, situaciones conocidas para niños).

Para cada pregunta, genera en formato JSON:
{
    "question": "La pregunta clara y directa",
    "options": ["opción 1", "opción 2", "opción 3", "opción 4"],
    "correct_answer": 0-3 (índice de la respuesta correcta),
    "explanation": "Por qué esta es la respuesta correcta",
    "intelligence_type": "linguistic" | "logical_mathematical" | "spatial" | "naturalistic" | "interpersonal"
}

Responde SOLO con un array JSON de %d preguntas, sin texto adicional.`,
		ageRange, s.Games.LocalContext, topic, difficulty, s.Games.TriviaQuestionsCount,
		s.Games.LocalContext, s.Games.TriviaQuestionsCount)
}

func (s *ContentService) generateTrivia(ctx context.Context, topic string, difficulty model.DifficultyLevel, ageRange string) ([]model.TriviaQuestion, error) {
	prompt := s.triviaPrompt(topic, difficulty, ageRange)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		p := prompt
		if attempt > 0 {
			p = prompt + jsonOnlyReminder
			logger.Log.Warn("retrying trivia generation with JSON-only instruction",
				zap.String("topic", topic), zap.Error(lastErr))
		}

		raw, err := s.AI.Chat(ctx, p, ChatOptions{})
		if err != nil {
			return nil, err
		}

		questions, perr := s.parseTrivia(raw, difficulty)
		if perr == nil {
			return questions, nil
		}
		lastErr = perr
	}

	return nil, &util.GenerationError{GameType: string(model.GameTrivia), Err: lastErr}
}

func (s *ContentService) parseTrivia(raw string, difficulty model.DifficultyLevel) ([]model.TriviaQuestion, error) {
	text := util.ExtractJSON(raw, util.ShapeAuto)

	var questions []model.TriviaQuestion
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		// 模型偶尔只回单个对象，按单元素序列处理
		var single model.TriviaQuestion
		if err2 := json.Unmarshal([]byte(text), &single); err2 != nil {
			return nil, err
		}
		questions = []model.TriviaQuestion{single}
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("empty question list")
	}

	for i := range questions {
		questions[i].Difficulty = difficulty
		if questions[i].IntelligenceType == "" {
			questions[i].IntelligenceType = model.DefaultIntelligenceType
		}
		if !model.IsIntelligenceType(questions[i].IntelligenceType) {
			questions[i].IntelligenceType = model.DefaultIntelligenceType
		}
		if err := questions[i].Validate(); err != nil {
			return nil, err
		}
	}

	return questions, nil
}

// ========== Adventure ==========

func (s *ContentService) adventurePrompt(topic string, difficulty model.DifficultyLevel, ageRange string) string {
	return fmt.Sprintf(`Eres un escritor de cuentos educativos interactivos para niños de %s años en %s.

Tema educativo: %s
Nivel: %s
Contexto: %s (usa lugares, animales, costumbres locales)

Crea una aventura interactiva de %d escenas donde el niño aprende sobre %s.

Formato JSON:
{
    "title": "Título atractivo de la aventura",
    "introduction": "Introducción que engancha (2-3 oraciones)",
    "scenes": [
        {
            "scene_number": 1,
            "description": "Descripción de la escena (3-4 oraciones)",
            "choices": [
                {
                    "text": "Opción 1",
                    "next_scene": 2,
                    "is_correct": true,
                    "points": 10,
                    "feedback": "¡Bien hecho! Explicación breve"
                },
                {
                    "text": "Opción 2",
                    "next_scene": 2,
                    "is_correct": false,
                    "points": 5,
                    "feedback": "Puedes hacerlo mejor. Explicación"
                }
            ],
            "learning_point": "Qué aprende el niño en esta escena"
        }
    ],
    "conclusion": "Final de la aventura (2-3 oraciones)",
    "total_scenes": %d
}

Responde SOLO con el JSON, sin texto adicional.`,
		ageRange, s.Games.LocalContext, topic, difficulty, s.Games.LocalContext,
		s.Games.AdventureScenesCount, topic, s.Games.AdventureScenesCount)
}

func (s *ContentService) generateAdventure(ctx context.Context, topic string, difficulty model.DifficultyLevel, ageRange string) (*model.AdventureStory, error) {
	prompt := s.adventurePrompt(topic, difficulty, ageRange)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		p := prompt
		if attempt > 0 {
			p = prompt + jsonOnlyReminder
			logger.Log.Warn("retrying adventure generation with JSON-only instruction",
				zap.String("topic", topic), zap.Error(lastErr))
		}

		raw, err := s.AI.Chat(ctx, p, ChatOptions{MaxTokens: 2500})
		if err != nil {
			return nil, err
		}

		story, perr := s.parseAdventure(raw, topic)
		if perr == nil {
			return story, nil
		}
		lastErr = perr
	}

	return nil, &util.GenerationError{GameType: string(model.GameAdventure), Err: lastErr}
}

func (s *ContentService) parseAdventure(raw, topic string) (*model.AdventureStory, error) {
	text := util.ExtractJSON(raw, util.ShapeObject)

	var story model.AdventureStory
	err := json.Unmarshal([]byte(text), &story)
	if err != nil || len(story.Scenes) == 0 {
		// 恢复策略：模型有时直接回场景数组。每个元素都带scene_number
		// 才按场景列表处理并包装成故事，否则视为生成失败
		arrText := util.ExtractJSON(raw, util.ShapeArray)
		var scenes []model.AdventureScene
		if arrErr := json.Unmarshal([]byte(arrText), &scenes); arrErr != nil || len(scenes) == 0 {
			if err == nil {
				err = fmt.Errorf("adventure story has no scenes")
			}
			return nil, err
		}
		for _, scene := range scenes {
			if scene.SceneNumber == 0 {
				return nil, fmt.Errorf("array response elements do not look like scenes")
			}
		}

		logger.Log.Warn("model returned scenes array instead of story object, wrapping",
			zap.String("topic", topic), zap.Int("scenes", len(scenes)))

		story = model.AdventureStory{
			Title:       fmt.Sprintf("Aventura sobre %s", topic),
			Scenes:      scenes,
			TotalScenes: len(scenes),
		}
	}

	// 缺省补齐：可选字段缺失不视为失败
	for i := range story.Scenes {
		if story.Scenes[i].Choices == nil {
			story.Scenes[i].Choices = []model.AdventureChoice{}
		}
	}
	// total_scenes以模型声明为准，缺失时回退为场景数
	if story.TotalScenes == 0 {
		story.TotalScenes = len(story.Scenes)
	}

	if err := story.Validate(); err != nil {
		return nil, err
	}

	return &story, nil
}

// ========== Market ==========

func (s *ContentService) marketPrompt(topic string, difficulty model.DifficultyLevel, ageRange string) string {
	return fmt.Sprintf(`Eres un diseñador de juegos educativos para niños de %s años en %s.

Tema: %s
Nivel: %s
Contexto: Mercado local (usa productos, monedas, situaciones conocidas)

Crea %d misiones educativas para un juego de mercado.

Tipos de tareas:
- "selection": elegir items correctos
- "math": resolver problemas matemáticos con productos
- "classification": clasificar items en categorías
- "matching": emparejar items relacionados

Formato JSON (array de %d misiones):
[
    {
        "mission_id": 1,
        "title": "Título de la misión",
        "description": "Descripción clara de qué hacer",
        "task_type": "selection",
        "items": [
            {"id": "item1", "name": "Manzana", "price": 2, "category": "fruta", "image": "🍎"},
            {"id": "item2", "name": "Papa", "price": 3, "category": "verdura", "image": "🥔"}
        ],
        "correct_items": ["item1", "item3"],
        "points": 10,
        "hint": "Pista útil",
        "intelligence_type": "logical_mathematical"
    }
]

Responde SOLO con el array JSON, sin texto adicional.`,
		ageRange, s.Games.LocalContext, topic, difficulty,
		s.Games.MarketMissionsCount, s.Games.MarketMissionsCount)
}

func (s *ContentService) generateMarket(ctx context.Context, topic string, difficulty model.DifficultyLevel, ageRange string) ([]model.MarketMission, error) {
	prompt := s.marketPrompt(topic, difficulty, ageRange)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		p := prompt
		if attempt > 0 {
			p = prompt + jsonOnlyReminder
			logger.Log.Warn("retrying market generation with JSON-only instruction",
				zap.String("topic", topic), zap.Error(lastErr))
		}

		raw, err := s.AI.Chat(ctx, p, ChatOptions{})
		if err != nil {
			return nil, err
		}

		missions, perr := s.parseMarket(raw)
		if perr == nil {
			return missions, nil
		}
		lastErr = perr
	}

	return nil, &util.GenerationError{GameType: string(model.GameMarket), Err: lastErr}
}

func (s *ContentService) parseMarket(raw string) ([]model.MarketMission, error) {
	text := util.ExtractJSON(raw, util.ShapeAuto)

	var missions []model.MarketMission
	if err := json.Unmarshal([]byte(text), &missions); err != nil {
		var single model.MarketMission
		if err2 := json.Unmarshal([]byte(text), &single); err2 != nil {
			return nil, err
		}
		missions = []model.MarketMission{single}
	}

	if len(missions) == 0 {
		return nil, fmt.Errorf("empty mission list")
	}

	for i := range missions {
		if missions[i].IntelligenceType == "" || !model.IsIntelligenceType(missions[i].IntelligenceType) {
			missions[i].IntelligenceType = model.DefaultIntelligenceType
		}

		// correct_items必须是items的子集且无重复，未知id剔除并告警
		ids := make(map[string]bool, len(missions[i].Items))
		for _, item := range missions[i].Items {
			ids[item.ID] = true
		}
		seen := make(map[string]bool, len(missions[i].CorrectItems))
		kept := missions[i].CorrectItems[:0]
		for _, id := range missions[i].CorrectItems {
			if seen[id] {
				continue
			}
			if ids[id] {
				seen[id] = true
				kept = append(kept, id)
			} else {
				logger.Log.Warn("dropping unknown correct item id",
					zap.Int("mission", missions[i].MissionID), zap.String("item", id))
			}
		}
		missions[i].CorrectItems = kept

		if err := missions[i].Validate(); err != nil {
			return nil, err
		}
	}

	return missions, nil
}

// ========== Feedback ==========

// GenerateFeedback 生成面向孩子的鼓励性反馈文案。自由文本，不做结构校验
func (s *ContentService) GenerateFeedback(ctx context.Context, topic string, score, maxScore int, gameType model.GameType) (string, error) {
	percentage := model.ScorePercentage(score, maxScore)

	prompt := fmt.Sprintf(`Eres un tutor amigable para niños.

El estudiante jugó un juego de %s sobre "%s".
Obtuvo %d de %d puntos (%.1f%%).

Genera un mensaje motivador y educativo (2-3 oraciones) que:
1. Felicite o anime según el puntaje
2. Resalte algo positivo
3. Dé una recomendación breve para mejorar o profundizar

Sé amigable, usa emojis y lenguaje para niños.`,
		gameType, topic, score, maxScore, percentage)

	text, err := s.AI.Chat(ctx, prompt, ChatOptions{Temperature: 0.8, MaxTokens: 200})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ========== Intelligence profile ==========

// IntelligenceProfile 多元智能画像
type IntelligenceProfile struct {
	Scores             model.IntelligenceVector `json:"scores"`
	Strongest          string                   `json:"strongest"`
	StrongestName      string                   `json:"strongest_name"`
	ProfileDescription string                   `json:"profile_description"`
}

var intelligenceNames = map[string]string{
	"linguistic":           "Lingüística (palabras y lenguaje)",
	"logical_mathematical": "Lógico-Matemática (números y razonamiento)",
	"spatial":              "Espacial (imágenes y espacio)",
	"naturalistic":         "Naturalista (naturaleza y ambiente)",
	"interpersonal":        "Interpersonal (relaciones sociales)",
	"intrapersonal":        "Intrapersonal (conocerse a sí mismo)",
	"musical":              "Musical (ritmos y sonidos)",
	"bodily_kinesthetic":   "Corporal-Kinestésica (movimiento y destreza)",
}

var intelligenceDescriptions = map[string]string{
	"linguistic":           "¡Eres excelente con las palabras! Te encanta leer, escribir y comunicarte.",
	"logical_mathematical": "¡Tienes mente de científico! Los números y la lógica son tu fuerte.",
	"spatial":              "¡Piensas en imágenes! Eres creativo y visualizas bien las cosas.",
	"naturalistic":         "¡Amas la naturaleza! Observas y entiendes el mundo natural.",
	"interpersonal":        "¡Eres muy social! Entiendes bien a las personas y trabajas genial en equipo.",
	"intrapersonal":        "¡Te conoces muy bien! Sabes lo que sientes y lo que quieres lograr.",
	"musical":              "¡Tienes oído musical! Los ritmos y melodías te acompañan siempre.",
	"bodily_kinesthetic":   "¡Aprendes haciendo! Tu cuerpo y tus manos son tus mejores herramientas.",
}

// AnalyzeIntelligenceProfile 从累计统计挑出最强智能。
// 平局时取固定分类顺序中靠前者。纯函数，不调用模型
func (s *ContentService) AnalyzeIntelligenceProfile(stats *model.UserStatistics) *IntelligenceProfile {
	scores := stats.IntelligenceScores()

	strongest := model.IntelligenceTypes[0]
	for _, t := range model.IntelligenceTypes {
		if scores[t] > scores[strongest] {
			strongest = t
		}
	}

	return &IntelligenceProfile{
		Scores:             scores,
		Strongest:          strongest,
		StrongestName:      intelligenceNames[strongest],
		ProfileDescription: intelligenceDescriptions[strongest],
	}
}
