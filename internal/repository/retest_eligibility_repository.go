package repository

import (
	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type RetestEligibilityRepository struct {
	DB *gorm.DB
}

func NewRetestEligibilityRepository(db *gorm.DB) *RetestEligibilityRepository {
	return &RetestEligibilityRepository{DB: db}
}

func (r *RetestEligibilityRepository) Create(e *model.RetestEligibility) error {
	return r.DB.Create(e).Error
}

func (r *RetestEligibilityRepository) Update(e *model.RetestEligibility) error {
	return r.DB.Save(e).Error
}

func (r *RetestEligibilityRepository) FindBySession(sessionID string) (*model.RetestEligibility, error) {
	var e model.RetestEligibility
	err := r.DB.Where("session_id = ?", sessionID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindPending 该候选人在 (技能, 等级) 上已具备资格且尚未消费的重测记录
func (r *RetestEligibilityRepository) FindPending(userID uint, skill, level string) (*model.RetestEligibility, error) {
	var e model.RetestEligibility
	err := r.DB.Where("user_id = ? AND skill = ? AND level = ? AND eligible = ? AND retest_taken = ?",
		userID, skill, level, true, false).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
