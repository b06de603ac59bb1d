package controller

import (
	"errors"
	"strconv"

	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RemediationController struct {
	Retest *service.RetestService
}

func NewRemediationController(retest *service.RetestService) *RemediationController {
	return &RemediationController{Retest: retest}
}

// ListWeakTopics godoc
// @Summary 某次会话的薄弱主题清单
// @Tags 补救
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/evaluations/{id}/weak-topics [get]
func (c *RemediationController) ListWeakTopics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessionID := ctx.Param("id")

	topics, err := c.Retest.ListWeakTopics(claims.UserID, sessionID)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, topics)
}

type WeakTopicStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateWeakTopicStatus godoc
// @Summary 更新薄弱主题补救状态
// @Description 置为 completed/mastered 时同步重测资格进度
// @Tags 补救
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "薄弱主题ID"
// @Param body body WeakTopicStatusRequest true "目标状态"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "状态非法"
// @Failure 404 {object} util.Response
// @Router /api/weak-topics/{id}/status [put]
func (c *RemediationController) UpdateWeakTopicStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req WeakTopicStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.Retest.UpdateTopicStatus(claims.UserID, uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrWeakTopicNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, "unknown remediation status")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, topic)
}

// ListMyWeakTopics godoc
// @Summary 候选人跨会话的补救清单
// @Tags 补救
// @Produce json
// @Security BearerAuth
// @Param status query string false "按状态过滤 needs_review/in_progress/completed/mastered"
// @Success 200 {object} util.Response
// @Router /api/weak-topics [get]
func (c *RemediationController) ListMyWeakTopics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	status := ctx.Query("status")

	topics, err := c.Retest.ListUserWeakTopics(claims.UserID, status)
	if err != nil {
		if errors.Is(err, util.ErrInvalidAnswer) {
			util.BadRequest(ctx, "unknown remediation status")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, topics)
}

// PendingRetest godoc
// @Summary 查询 (技能, 等级) 上待用的重测资格
// @Tags 补救
// @Produce json
// @Security BearerAuth
// @Param skill query string true "技能"
// @Param level query string true "等级"
// @Success 200 {object} util.Response
// @Router /api/retests/pending [get]
func (c *RemediationController) PendingRetest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	skill := ctx.Query("skill")
	level := ctx.Query("level")
	if skill == "" || level == "" {
		util.BadRequest(ctx, "skill and level required")
		return
	}

	elig, err := c.Retest.PendingRetest(claims.UserID, skill, level)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"pending": elig != nil, "eligibility": elig})
}

// CanRetest godoc
// @Summary 查询某失败会话的重测资格
// @Tags 补救
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "该会话没有资格记录（未产生薄弱主题）"
// @Router /api/evaluations/{id}/retest [get]
func (c *RemediationController) CanRetest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessionID := ctx.Param("id")

	eligible, err := c.Retest.CanRetest(claims.UserID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoEligibilityRecord):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"eligible": eligible})
}
