package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yachai_backend/internal/service"
	"yachai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService        *service.UserService
	StorageService     *service.StorageService
	AchievementService *service.AchievementService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService, achievementService *service.AchievementService) *UserController {
	return &UserController{
		UserService:        userService,
		StorageService:     storageService,
		AchievementService: achievementService,
	}
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 返回当前已认证用户的资料（分数、金币、等级）
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// GetUser godoc
// @Summary 按ID查询用户
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "用户ID必须是整数")
		return
	}

	user, err := c.UserService.GetProfile(uint(userID))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// GetUserByUsername godoc
// @Summary 按用户名查询用户
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/username/{username} [get]
func (c *UserController) GetUserByUsername(ctx *gin.Context) {
	user, err := c.UserService.GetByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// GetStatistics godoc
// @Summary 获取游戏统计
// @Description 返回用户的游戏次数与各智能维度累计得分，未玩过返回空统计
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.UserStatistics} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/users/{id}/statistics [get]
func (c *UserController) GetStatistics(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "用户ID必须是整数")
		return
	}

	stats, err := c.UserService.GetStatistics(uint(userID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// GetAchievements godoc
// @Summary 获取已解锁成就
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Achievement} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/users/{id}/achievements [get]
func (c *UserController) GetAchievements(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "用户ID必须是整数")
		return
	}

	achievements, err := c.AchievementService.ListByUser(uint(userID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// GetLeaderboard godoc
// @Summary 获取排行榜
// @Description 按总分降序前10名
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "成功"
// @Router /api/users/leaderboard [get]
func (c *UserController) GetLeaderboard(ctx *gin.Context) {
	entries, err := c.UserService.GetLeaderboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// 允许的头像格式
var allowedAvatarExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

const maxAvatarSize = 2 << 20 // 2MB

// UploadAvatar godoc
// @Summary 上传头像
// @Description 上传头像图片并更新用户资料
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件格式或大小不合法"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/users/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "缺少avatar文件")
		return
	}
	if file.Size > maxAvatarSize {
		util.BadRequest(ctx, "头像不能超过2MB")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExt[ext] {
		util.BadRequest(ctx, "仅支持jpg/png/webp格式")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d_%d%s", claims.UserID, time.Now().Unix(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}
