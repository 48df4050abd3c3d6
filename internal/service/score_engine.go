package service

import (
	"yachai_backend/internal/model"
)

// CalculateScore 根据游戏类型对提交的答案计分。纯函数，无I/O：
// 返回得分、满分和八大智能的得分向量（八个key始终齐全）。
//
// trivia：答案按提交顺序与题目位置一一对应（隐式契约，调用方需保证顺序），
// 每答对一题得10分，不存在倒扣。满分恒为题数*10。
//
// adventure：满分按提交的答案条数累计（每条10分），少交答案会低估分母，
// 与前端既有契约保持一致。选项分值在interpersonal与linguistic间整除平分，
// 奇数分值的余数舍弃。
//
// market：按选对比例取整授分，correct_items为空的任务不计入得分与满分。
func CalculateScore(content *model.GameContent, answers []model.GameAnswer, gameType model.GameType) (int, int, model.IntelligenceVector) {
	score := 0
	maxScore := 0
	intelligence := model.NewIntelligenceVector()

	if content == nil {
		return score, maxScore, intelligence
	}

	switch gameType {
	case model.GameTrivia:
		questions := content.TriviaQuestions
		maxScore = len(questions) * 10

		for i, answer := range answers {
			if i >= len(questions) {
				break
			}
			question := questions[i]
			if answer.SelectedAnswer != nil && *answer.SelectedAnswer == question.CorrectAnswer {
				score += 10
				intelligence.Add(question.IntelligenceType, 10)
			}
		}

	case model.GameAdventure:
		if content.AdventureStory == nil {
			break
		}
		scenes := content.AdventureStory.Scenes

		for _, answer := range answers {
			if answer.SceneNumber < 1 || answer.SceneNumber > len(scenes) {
				continue
			}
			scene := scenes[answer.SceneNumber-1]
			if answer.ChoiceIndex < 0 || answer.ChoiceIndex >= len(scene.Choices) {
				continue
			}
			points := scene.Choices[answer.ChoiceIndex].Points
			score += points
			maxScore += 10

			intelligence.Add("interpersonal", points/2)
			intelligence.Add("linguistic", points/2)
		}

	case model.GameMarket:
		missions := content.MarketMissions

		for _, answer := range answers {
			if answer.MissionID < 1 || answer.MissionID > len(missions) {
				continue
			}
			mission := missions[answer.MissionID-1]

			correctItems := make(map[string]bool, len(mission.CorrectItems))
			for _, id := range mission.CorrectItems {
				correctItems[id] = true
			}

			// 选中项按集合处理，重复提交同一item不重复计数
			selected := make(map[string]bool, len(answer.SelectedItems))
			for _, id := range answer.SelectedItems {
				selected[id] = true
			}

			correctSelected := 0
			for id := range selected {
				if correctItems[id] {
					correctSelected++
				}
			}

			// correct_items同样按集合计数，重复id不膨胀分母
			totalCorrect := len(correctItems)
			if totalCorrect == 0 {
				continue
			}

			points := correctSelected * mission.Points / totalCorrect
			score += points
			maxScore += mission.Points
			intelligence.Add(mission.IntelligenceType, points)
		}
	}

	return score, maxScore, intelligence
}
