package controller

import (
	"errors"
	"strconv"

	"skill_assess_backend/internal/service"
	"skill_assess_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	Evaluations *service.EvaluationService
	Questions   *service.QuestionService
}

func NewEvaluationController(evaluations *service.EvaluationService, questions *service.QuestionService) *EvaluationController {
	return &EvaluationController{Evaluations: evaluations, Questions: questions}
}

type StartEvaluationRequest struct {
	Skill string `json:"skill" binding:"required"`
	Level string `json:"level" binding:"required"`
}

// Start godoc
// @Summary 开启一次测评会话
// @Tags 测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartEvaluationRequest true "技能与等级"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "等级不在阶梯中"
// @Failure 403 {object} util.Response "等级未解锁"
// @Failure 409 {object} util.Response "已有未过期的进行中会话"
// @Router /api/evaluations [post]
func (c *EvaluationController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req StartEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Evaluations.Start(claims.UserID, req.Skill, req.Level)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnknownLevel), errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLevelLocked):
			util.Error(ctx, 403, err.Error())
		case errors.Is(err, util.ErrDuplicateActiveSession):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 随会话一并返回考生视图的题目
	questions, err := c.Questions.ListSessionQuestions(req.Skill, req.Level)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"session": session, "questions": questions})
}

type SubmitEvaluationRequest struct {
	Answers []service.SubmitAnswer `json:"answers"`
}

// Submit godoc
// @Summary 提交作答并结算会话
// @Tags 测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body SubmitEvaluationRequest true "作答列表"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "会话已结束"
// @Failure 410 {object} util.Response "会话已过期"
// @Router /api/evaluations/{id}/submit [post]
func (c *EvaluationController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessionID := ctx.Param("id")

	var req SubmitEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Evaluations.Complete(claims.UserID, sessionID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrSessionAlreadyComplete):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrSessionExpired):
			util.Error(ctx, 410, err.Error())
		case errors.Is(err, util.ErrEmptyQuestionSet):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Get godoc
// @Summary 查询会话结果（读取前先做懒失效）
// @Tags 测评
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/evaluations/{id} [get]
func (c *EvaluationController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessionID := ctx.Param("id")

	result, err := c.Evaluations.GetSession(claims.UserID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// CheckExpiry godoc
// @Summary 懒失效检查
// @Tags 测评
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/evaluations/{id}/expiry [get]
func (c *EvaluationController) CheckExpiry(ctx *gin.Context) {
	sessionID := ctx.Param("id")

	expired, err := c.Evaluations.CheckExpiry(sessionID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"expired": expired})
}

// List godoc
// @Summary 历史会话列表
// @Tags 测评
// @Produce json
// @Security BearerAuth
// @Param skill query string false "技能"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/evaluations [get]
func (c *EvaluationController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	skill := ctx.Query("skill")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, total, err := c.Evaluations.ListSessions(claims.UserID, skill, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  sessions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
