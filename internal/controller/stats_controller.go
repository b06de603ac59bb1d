package controller

import (
	"strconv"
	"time"

	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Stats *service.StatsService
}

func NewStatsController(stats *service.StatsService) *StatsController {
	return &StatsController{Stats: stats}
}

// AttemptStats godoc
// @Summary 测评会话统计（管理端，只读）
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param skill query string true "技能"
// @Param level query string false "等级"
// @Param start query string false "起始日期 2006-01-02"
// @Param end query string false "截止日期 2006-01-02"
// @Success 200 {object} util.Response
// @Router /api/admin/stats [get]
func (c *StatsController) AttemptStats(ctx *gin.Context) {
	skill := ctx.Query("skill")
	if skill == "" {
		util.BadRequest(ctx, "skill required")
		return
	}
	level := ctx.Query("level")

	var start, end *time.Time
	if v := ctx.Query("start"); v != "" {
		if t, err := time.Parse(util.DateFormat, v); err == nil {
			start = &t
		}
	}
	if v := ctx.Query("end"); v != "" {
		if t, err := time.Parse(util.DateFormat, v); err == nil {
			end = &t
		}
	}

	stats, err := c.Stats.GetAttemptStats(skill, level, start, end)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// WeakTopicStats godoc
// @Summary 主题薄弱频次排行（管理端，只读）
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param skill query string true "技能"
// @Param limit query int false "数量上限"
// @Success 200 {object} util.Response
// @Router /api/admin/stats/weak-topics [get]
func (c *StatsController) WeakTopicStats(ctx *gin.Context) {
	skill := ctx.Query("skill")
	if skill == "" {
		util.BadRequest(ctx, "skill required")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	stats, err := c.Stats.GetWeakTopicStats(skill, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
