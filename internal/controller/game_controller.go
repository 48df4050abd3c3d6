package controller

import (
	"errors"
	"strconv"

	"yachai_backend/internal/model"
	"yachai_backend/internal/service"
	"yachai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{GameService: gameService}
}

// swagger:model StartGameRequest
type StartGameRequest struct {
	Topic      string `json:"topic" binding:"required,max=200"`
	GameType   string `json:"game_type" binding:"required"`
	Difficulty string `json:"difficulty"`
	AgeRange   string `json:"age_range"`
}

// StartGame godoc
// @Summary 开始新游戏
// @Description 按主题和游戏类型生成内容并创建会话
// @Tags 游戏
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartGameRequest true "开局参数"
// @Success 201 {object} util.Response{data=model.GameSession} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 500 {object} util.Response "内容生成失败"
// @Router /api/games/start [post]
func (c *GameController) StartGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartGameRequest
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

	session, err := c.GameService.StartGame(ctx.Request.Context(), claims.UserID, req.Topic, gameType, difficulty, req.AgeRange)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, session)
}

// swagger:model SubmitGameRequest
type SubmitGameRequest struct {
	Answers []model.GameAnswer `json:"answers" binding:"required"`
}

// SubmitGame godoc
// @Summary 提交游戏答案
// @Description 结算会话：计分、发金币、生成反馈与学习建议
// @Tags 游戏
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Param   body body SubmitGameRequest true "用户答案"
// @Success 200 {object} util.Response{data=service.SubmitResult} "结算结果"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "会话已结算"
// @Router /api/games/{sessionId}/submit [post]
func (c *GameController) SubmitGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GameService.SubmitGame(ctx.Request.Context(), claims.UserID, ctx.Param("sessionId"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx, "会话不存在")
		case errors.Is(err, util.ErrSessionCompleted):
			util.Conflict(ctx, "会话已结算，不能重复提交")
		case errors.Is(err, util.ErrSessionNoContent):
			util.Conflict(ctx, "会话没有可结算的内容")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// GetSession godoc
// @Summary 查询游戏会话
// @Tags 游戏
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} util.Response{data=model.GameSession} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/games/{sessionId} [get]
func (c *GameController) GetSession(ctx *gin.Context) {
	session, err := c.GameService.GetSession(ctx.Param("sessionId"))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx, "会话不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// ListUserSessions godoc
// @Summary 查询用户最近的游戏会话
// @Description 按开始时间倒序，默认20条
// @Tags 游戏
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   limit query int false "数量上限（1-50）"
// @Success 200 {object} util.Response{data=[]model.GameSession} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/users/{id}/sessions [get]
func (c *GameController) ListUserSessions(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "用户ID必须是整数")
		return
	}

	limit := 0
	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			util.BadRequest(ctx, "limit必须是整数")
			return
		}
		limit = n
	}

	sessions, err := c.GameService.ListSessions(uint(userID), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}
