package controller

import (
	"errors"

	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressionController struct {
	Progression *service.ProgressionService
}

func NewProgressionController(progression *service.ProgressionService) *ProgressionController {
	return &ProgressionController{Progression: progression}
}

// ListSkills godoc
// @Summary 有账本记录的全部技能进度概览
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressionController) ListSkills(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	skills, err := c.Progression.ListSkills(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, skills)
}

// GetProgress godoc
// @Summary 技能阶梯进度视图
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param skill path string true "技能"
// @Success 200 {object} util.Response
// @Router /api/progress/{skill} [get]
func (c *ProgressionController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	skill := ctx.Param("skill")

	entries, err := c.Progression.GetProgress(claims.UserID, skill)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"skill": skill, "levels": entries})
}

// IsUnlocked godoc
// @Summary 查询某等级是否已解锁
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param skill path string true "技能"
// @Param level query string true "等级"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "等级不在阶梯中"
// @Router /api/progress/{skill}/unlocked [get]
func (c *ProgressionController) IsUnlocked(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	skill := ctx.Param("skill")
	level := ctx.Query("level")

	unlocked, err := c.Progression.IsUnlocked(claims.UserID, skill, level)
	if err != nil {
		if errors.Is(err, util.ErrUnknownLevel) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"level": level, "unlocked": unlocked})
}
