package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/util"
	"skill_assess_backend/pkg/logger"
	"skill_assess_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EvaluationService 单次限时测评的生命周期（启动、失效、完成），
// 也是提交时串起判分、维度分析、薄弱主题分析、账本记账的编排点。
type EvaluationService struct {
	Sessions    *repository.SessionRepository
	Questions   *repository.QuestionRepository
	WeakTopics  *repository.WeakTopicRepository
	Eligibility *repository.RetestEligibilityRepository
	Progression *ProgressionService
	Retest      *RetestService
	Scoring     *ScoringEngine
	Dimensions  *DimensionAnalyzer
	Analyzer    *WeakTopicAnalyzer
	Ladder      model.LevelLadder
	DB          *gorm.DB
	Redis       *redis.Client // 可为 nil，仅作启动去重的尽力而为守卫
}

func NewEvaluationService(
	sessions *repository.SessionRepository,
	questions *repository.QuestionRepository,
	weakTopics *repository.WeakTopicRepository,
	eligibility *repository.RetestEligibilityRepository,
	progression *ProgressionService,
	retest *RetestService,
	analyzer *WeakTopicAnalyzer,
	ladder model.LevelLadder,
	db *gorm.DB,
	rdb *redis.Client,
) *EvaluationService {
	return &EvaluationService{
		Sessions:    sessions,
		Questions:   questions,
		WeakTopics:  weakTopics,
		Eligibility: eligibility,
		Progression: progression,
		Retest:      retest,
		Scoring:     NewScoringEngine(),
		Dimensions:  NewDimensionAnalyzer(),
		Analyzer:    analyzer,
		Ladder:      ladder,
		DB:          db,
		Redis:       rdb,
	}
}

// CompleteResult 提交后的最终会话与本次产生的薄弱主题。
// Answers 仅在读取已结束会话时回填，提交响应里逐题结果已在会话聚合字段中。
type CompleteResult struct {
	Session    *model.EvaluationSession `json:"session"`
	WeakTopics []model.WeakTopic        `json:"weakTopics"`
	Dimensions DimensionScores          `json:"dimensions"`
	Answers    []model.AnswerSubmission `json:"answers,omitempty"`
}

// Start 开启一次测评。同一候选人同一技能上已有未过期的 in_progress 会话时
// 报 ErrDuplicateActiveSession，调用方要么继续原会话要么等它过期。
// 若该 (技能, 等级) 上有待用的重测资格，此处将其消费掉。
func (s *EvaluationService) Start(userID uint, skill, level string) (*model.EvaluationSession, error) {
	if skill == "" {
		return nil, util.ErrInvalidAnswer
	}
	if !s.Ladder.Contains(level) {
		return nil, util.ErrUnknownLevel
	}

	unlocked, err := s.Progression.IsUnlocked(userID, skill, level)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, util.ErrLevelLocked
	}

	now := time.Now()
	if _, err := s.Sessions.FindActive(userID, skill, now); err == nil {
		return nil, util.ErrDuplicateActiveSession
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Redis SETNX 守卫并发的重复 start；拿不到锁按已有会话处理。
	// 锁 TTL 与会话时限一致，数据库仍是唯一事实来源。
	if s.Redis != nil {
		ok, err := s.Redis.SetNX(context.Background(), s.activeKey(userID, skill), 1, model.SessionTimeLimit).Result()
		if err != nil {
			logger.Log.Warn("session start guard unavailable", zap.Error(err))
		} else if !ok {
			return nil, util.ErrDuplicateActiveSession
		}
	}

	session := &model.EvaluationSession{
		UserID:    userID,
		Skill:     skill,
		Level:     level,
		Status:    model.SessionStatusInProgress,
		StartedAt: now,
		ExpiresAt: now.Add(model.SessionTimeLimit),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return s.Retest.ConsumeRetest(tx, userID, skill, level)
	})
	if err != nil {
		s.releaseGuard(userID, skill)
		return nil, err
	}

	return session, nil
}

// CheckExpiry 懒失效：会话已过时限但状态仍是 in_progress 时落库置为
// expired 并返回 true。任何读写会话的路径都必须先走这里再信任其状态。
func (s *EvaluationService) CheckExpiry(sessionID string) (bool, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, util.ErrSessionNotFound
	}
	if err != nil {
		return false, err
	}

	if !session.Expired(time.Now()) {
		return false, nil
	}

	err = s.DB.Model(session).
		Where("status = ?", model.SessionStatusInProgress).
		Update("status", model.SessionStatusExpired).Error
	if err != nil {
		return false, err
	}
	monitoring.SessionsCompleted.WithLabelValues(session.Skill, model.SessionStatusExpired).Inc()
	s.releaseGuard(session.UserID, session.Skill)
	return true, nil
}

// Complete 提交作答，编排入口。先做全部纯计算（判分、维度、薄弱主题），
// 再把会话终态、作答记录、薄弱主题、重测资格、账本记账放进同一次原子
// 提交；纯计算阶段中途失败不留任何持久副作用。
func (s *EvaluationService) Complete(userID uint, sessionID string, answers []SubmitAnswer) (*CompleteResult, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	expired, err := s.CheckExpiry(sessionID)
	if err != nil {
		return nil, err
	}
	if expired {
		// 过期会话不判分
		return nil, util.ErrSessionExpired
	}
	if session.Finished() {
		return nil, util.ErrSessionAlreadyComplete
	}

	questions, err := s.Questions.ListBySkillLevel(session.Skill, session.Level)
	if err != nil {
		return nil, err
	}

	// 纯计算阶段，无任何写入
	result, err := s.Scoring.Score(questions, answers)
	if err != nil {
		return nil, err
	}
	dims := s.Dimensions.Derive(result.Scored)
	weakStats := s.Analyzer.Identify(result.Scored)

	passing := s.Ladder.PassingScore(session.Level)
	status := model.SessionStatusFailed
	if result.Score >= passing {
		status = model.SessionStatusPassed
	}

	dimsJSON, err := json.Marshal(dims)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	score := result.Score
	weakTopics := make([]model.WeakTopic, len(weakStats))
	for i, stat := range weakStats {
		weakTopics[i] = model.WeakTopic{
			UserID:      userID,
			SessionID:   session.ID,
			Topic:       stat.Topic,
			WrongCount:  stat.WrongCount,
			TotalCount:  stat.TotalCount,
			AccuracyPct: stat.AccuracyPct,
			Status:      model.WeakTopicStatusNeedsReview,
		}
	}

	// 单次原子提交
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 状态再次校验写在 WHERE 里，并发重试只有一个能赢
		res := tx.Model(&model.EvaluationSession{}).
			Where("id = ? AND status = ?", session.ID, model.SessionStatusInProgress).
			Updates(map[string]interface{}{
				"status":          status,
				"score":           score,
				"completed_at":    now,
				"total_questions": len(result.Scored),
				"correct_count":   result.CorrectCount,
				"wrong_count":     result.WrongCount,
				"dimensions":      string(dimsJSON),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrSessionAlreadyComplete
		}

		submissions := make([]model.AnswerSubmission, 0, len(result.Scored))
		for _, sq := range result.Scored {
			sub := model.AnswerSubmission{
				SessionID:  session.ID,
				QuestionID: sq.Question.ID,
				Correct:    sq.Correct,
			}
			if sq.Answered {
				sub.Answer = string(sq.Answer)
			}
			submissions = append(submissions, sub)
		}
		if len(submissions) > 0 {
			if err := tx.Create(&submissions).Error; err != nil {
				return err
			}
		}

		if len(weakTopics) > 0 {
			if err := tx.Create(&weakTopics).Error; err != nil {
				return err
			}
			elig := &model.RetestEligibility{
				UserID:         userID,
				SessionID:      session.ID,
				Skill:          session.Skill,
				Level:          session.Level,
				RequiredTopics: len(weakTopics),
			}
			if err := tx.Create(elig).Error; err != nil {
				return err
			}
		}

		return s.Progression.RecordAttempt(tx, userID, session.Skill, session.Level,
			session.ID, score, status == model.SessionStatusPassed)
	})
	if err != nil {
		return nil, err
	}

	session.Status = status
	session.Score = &score
	session.CompletedAt = &now
	session.TotalQuestions = len(result.Scored)
	session.CorrectCount = result.CorrectCount
	session.WrongCount = result.WrongCount
	session.Dimensions = string(dimsJSON)

	monitoring.SessionsCompleted.WithLabelValues(session.Skill, status).Inc()
	for range weakTopics {
		monitoring.WeakTopicsFlagged.WithLabelValues(session.Skill).Inc()
	}
	s.releaseGuard(userID, session.Skill)

	logger.Log.Info("evaluation completed",
		zap.String("sessionId", session.ID),
		zap.Uint("userId", userID),
		zap.String("skill", session.Skill),
		zap.String("level", session.Level),
		zap.Int("score", score),
		zap.String("status", status),
		zap.Int("weakTopics", len(weakTopics)))

	return &CompleteResult{
		Session:    session,
		WeakTopics: weakTopics,
		Dimensions: dims,
	}, nil
}

// GetSession 读取会话（先懒失效再返回），附带薄弱主题
func (s *EvaluationService) GetSession(userID uint, sessionID string) (*CompleteResult, error) {
	if _, err := s.CheckExpiry(sessionID); err != nil {
		return nil, err
	}

	session, err := s.Sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	topics, err := s.WeakTopics.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	var dims DimensionScores
	if session.Dimensions != "" {
		if err := json.Unmarshal([]byte(session.Dimensions), &dims); err != nil {
			return nil, err
		}
	}

	var answers []model.AnswerSubmission
	if session.Finished() {
		answers, err = s.Sessions.GetAnswers(sessionID)
		if err != nil {
			return nil, err
		}
	}

	return &CompleteResult{Session: session, WeakTopics: topics, Dimensions: dims, Answers: answers}, nil
}

// ListSessions 候选人的历史会话
func (s *EvaluationService) ListSessions(userID uint, skill string, page, limit int) ([]model.EvaluationSession, int64, error) {
	return s.Sessions.ListByUser(userID, skill, page, limit)
}

func (s *EvaluationService) activeKey(userID uint, skill string) string {
	return fmt.Sprintf("active_eval:%d:%s", userID, skill)
}

func (s *EvaluationService) releaseGuard(userID uint, skill string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), s.activeKey(userID, skill)).Err(); err != nil {
		logger.Log.Warn("failed to release session guard", zap.Error(err))
	}
}
