package controller

import (
	"errors"

	"yachai_backend/internal/model"
	"yachai_backend/internal/service"
	"yachai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AIController 内容生成的直连接口，不创建会话，供前端预览和调试
type AIController struct {
	ContentService *service.ContentService
	UserService    *service.UserService
}

func NewAIController(contentService *service.ContentService, userService *service.UserService) *AIController {
	return &AIController{ContentService: contentService, UserService: userService}
}

// swagger:model GenerateContentRequest
type GenerateContentRequest struct {
	Topic      string `json:"topic" binding:"required,max=200"`
	GameType   string `json:"game_type" binding:"required"`
	Difficulty string `json:"difficulty"`
	AgeRange   string `json:"age_range"`
}

// GenerateContent godoc
// @Summary 生成游戏内容
// @Description 直接生成并返回校验后的游戏内容，不落库
// @Tags AI
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateContentRequest true "生成参数"
// @Success 200 {object} util.Response{data=model.GameContent} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Failure 500 {object} util.Response "生成失败"
// @Router /api/ai/generate-content [post]
func (c *AIController) GenerateContent(ctx *gin.Context) {
	var req GenerateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	gameType, err := model.ParseGameType(req.GameType)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	difficulty := model.DifficultyMedium
	if req.Difficulty != "" {
		difficulty, err = model.ParseDifficulty(req.Difficulty)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	content, err := c.ContentService.GenerateGameContent(ctx.Request.Context(), req.Topic, gameType, difficulty, req.AgeRange)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, content)
}

// swagger:model GenerateFeedbackRequest
type GenerateFeedbackRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Score    int    `json:"score" binding:"min=0"`
	MaxScore int    `json:"max_score" binding:"min=0"`
	GameType string `json:"game_type" binding:"required"`
}

// GenerateFeedback godoc
// @Summary 生成反馈文案
// @Description 按得分生成面向孩子的鼓励性反馈
// @Tags AI
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateFeedbackRequest true "得分信息"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/ai/generate-feedback [post]
func (c *AIController) GenerateFeedback(ctx *gin.Context) {
	var req GenerateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	gameType, err := model.ParseGameType(req.GameType)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.ContentService.GenerateFeedback(ctx.Request.Context(), req.Topic, req.Score, req.MaxScore, gameType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"feedback": feedback})
}

// AnalyzeIntelligence godoc
// @Summary 多元智能画像
// @Description 基于累计统计分析当前用户的最强智能维度
// @Tags AI
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.IntelligenceProfile} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "还没有游戏记录"
// @Router /api/ai/analyze-intelligence [post]
func (c *AIController) AnalyzeIntelligence(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetIntelligenceProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrStatsNotFound) {
			util.NotFound(ctx, "还没有游戏记录，先玩一局吧")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}
