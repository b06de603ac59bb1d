package repository

import (
	"time"

	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(s *model.EvaluationSession) error {
	return r.DB.Create(s).Error
}

func (r *SessionRepository) Update(s *model.EvaluationSession) error {
	return r.DB.Save(s).Error
}

func (r *SessionRepository) FindByID(id string) (*model.EvaluationSession, error) {
	var s model.EvaluationSession
	err := r.DB.Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindActive 查找该候选人在该技能上未过期的 in_progress 会话，
// 用于 start 的 check-then-act 去重
func (r *SessionRepository) FindActive(userID uint, skill string, now time.Time) (*model.EvaluationSession, error) {
	var s model.EvaluationSession
	err := r.DB.Where("user_id = ? AND skill = ? AND status = ? AND expires_at > ?",
		userID, skill, model.SessionStatusInProgress, now).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) ListByUser(userID uint, skill string, page, limit int) ([]model.EvaluationSession, int64, error) {
	var sessions []model.EvaluationSession
	var total int64
	query := r.DB.Model(&model.EvaluationSession{}).Where("user_id = ?", userID)
	if skill != "" {
		query = query.Where("skill = ?", skill)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *SessionRepository) CreateAnswers(answers []model.AnswerSubmission) error {
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Create(&answers).Error
}

func (r *SessionRepository) GetAnswers(sessionID string) ([]model.AnswerSubmission, error) {
	var answers []model.AnswerSubmission
	err := r.DB.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}
