package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB      *gorm.DB
	started time.Time
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db, started: time.Now()}
}

// Health godoc
// @Summary 健康检查
// @Description 返回服务与数据库状态
// @Tags 系统
// @Produce  json
// @Success 200 {object} object "健康"
// @Failure 503 {object} object "数据库不可用"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	overall := "ok"
	dbStatus := "ok"
	status := http.StatusOK

	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		overall = "degraded"
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, gin.H{
		"status":   overall,
		"uptime":   time.Since(c.started).String(),
		"database": dbStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}
