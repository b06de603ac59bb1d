package service

import (
	"errors"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/util"
	"skill_assess_backend/pkg/logger"
	"skill_assess_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetestService 补救闸门：失败会话产生的薄弱主题全部补救到位后才放行重测，
// 且一轮补救只能换一次重测。
type RetestService struct {
	WeakTopics  *repository.WeakTopicRepository
	Eligibility *repository.RetestEligibilityRepository
	DB          *gorm.DB
}

func NewRetestService(weakTopics *repository.WeakTopicRepository, eligibility *repository.RetestEligibilityRepository, db *gorm.DB) *RetestService {
	return &RetestService{WeakTopics: weakTopics, Eligibility: eligibility, DB: db}
}

var validWeakTopicStatuses = map[string]bool{
	model.WeakTopicStatusNeedsReview: true,
	model.WeakTopicStatusInProgress:  true,
	model.WeakTopicStatusCompleted:   true,
	model.WeakTopicStatusMastered:    true,
}

// MarkTopicRemediated 把薄弱主题置为 completed 并同步资格进度
func (s *RetestService) MarkTopicRemediated(userID uint, weakTopicID uint) (*model.WeakTopic, error) {
	return s.UpdateTopicStatus(userID, weakTopicID, model.WeakTopicStatusCompleted)
}

// UpdateTopicStatus 修改薄弱主题状态。跨过 completed/mastered 边界时，
// 关联资格记录的 completed-topic-count 原子地同步，补满即翻转 eligible。
func (s *RetestService) UpdateTopicStatus(userID uint, weakTopicID uint, status string) (*model.WeakTopic, error) {
	if !validWeakTopicStatuses[status] {
		return nil, util.ErrInvalidAnswer
	}

	topic, err := s.WeakTopics.FindByID(weakTopicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrWeakTopicNotFound
	}
	if err != nil {
		return nil, err
	}
	if topic.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	wasRemediated := topic.Remediated()
	topic.Status = status
	nowRemediated := topic.Remediated()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(topic).Error; err != nil {
			return err
		}
		if wasRemediated == nowRemediated {
			return nil
		}
		return s.syncEligibility(tx, topic, nowRemediated)
	})
	if err != nil {
		return nil, err
	}
	return topic, nil
}

// syncEligibility 维持不变量：completed-topic-count 恒等于该会话下
// 已补救到位的 WeakTopic 数，eligible 恒等于 completed == required
func (s *RetestService) syncEligibility(tx *gorm.DB, topic *model.WeakTopic, remediated bool) error {
	var elig model.RetestEligibility
	err := tx.Where("session_id = ?", topic.SessionID).First(&elig).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 会话没有资格记录意味着数据被旁路写过，记日志但不阻塞状态更新
		logger.Log.Warn("weak topic without eligibility record",
			zap.Uint("weakTopicId", topic.ID),
			zap.String("sessionId", topic.SessionID))
		return nil
	}
	if err != nil {
		return err
	}

	if remediated {
		elig.CompletedTopics++
	} else if elig.CompletedTopics > 0 {
		elig.CompletedTopics--
	}

	wasEligible := elig.Eligible
	elig.Eligible = elig.CompletedTopics >= elig.RequiredTopics
	if elig.Eligible && !wasEligible {
		monitoring.RetestsGranted.Inc()
	}

	return tx.Save(&elig).Error
}

// CanRetest 返回该会话的重测资格。会话没产生薄弱主题时报
// ErrNoEligibilityRecord（此时重测只受解锁规则约束，不归本闸门管）；
// 重测已被消费后即使名义上仍有资格也返回 false。
func (s *RetestService) CanRetest(userID uint, sessionID string) (bool, error) {
	elig, err := s.Eligibility.FindBySession(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, util.ErrNoEligibilityRecord
	}
	if err != nil {
		return false, err
	}
	if elig.UserID != userID {
		return false, util.ErrPermissionDenied
	}
	if elig.RetestTaken {
		return false, nil
	}
	return elig.Eligible, nil
}

// ConsumeRetest 新会话启动时消费掉 (技能, 等级) 上待用的重测资格。
// 没有待用资格不是错误，直接无事发生。
func (s *RetestService) ConsumeRetest(tx *gorm.DB, userID uint, skill, level string) error {
	var elig model.RetestEligibility
	err := tx.Where("user_id = ? AND skill = ? AND level = ? AND eligible = ? AND retest_taken = ?",
		userID, skill, level, true, false).First(&elig).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	elig.RetestTaken = true
	return tx.Save(&elig).Error
}

// ListWeakTopics 候选人查看某会话的薄弱主题清单
func (s *RetestService) ListWeakTopics(userID uint, sessionID string) ([]model.WeakTopic, error) {
	topics, err := s.WeakTopics.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	for _, t := range topics {
		if t.UserID != userID {
			return nil, util.ErrPermissionDenied
		}
	}
	return topics, nil
}

// ListUserWeakTopics 候选人跨会话的补救清单，可按状态过滤
func (s *RetestService) ListUserWeakTopics(userID uint, status string) ([]model.WeakTopic, error) {
	if status != "" && !validWeakTopicStatuses[status] {
		return nil, util.ErrInvalidAnswer
	}
	return s.WeakTopics.ListByUser(userID, status)
}

// PendingRetest 该候选人在 (技能, 等级) 上是否有待用的重测资格；
// 没有时返回 nil，不算错误
func (s *RetestService) PendingRetest(userID uint, skill, level string) (*model.RetestEligibility, error) {
	elig, err := s.Eligibility.FindPending(userID, skill, level)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return elig, nil
}
