package repository

import (
	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type WeakTopicRepository struct {
	DB *gorm.DB
}

func NewWeakTopicRepository(db *gorm.DB) *WeakTopicRepository {
	return &WeakTopicRepository{DB: db}
}

func (r *WeakTopicRepository) Update(w *model.WeakTopic) error {
	return r.DB.Save(w).Error
}

func (r *WeakTopicRepository) FindByID(id uint) (*model.WeakTopic, error) {
	var w model.WeakTopic
	err := r.DB.First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WeakTopicRepository) ListBySession(sessionID string) ([]model.WeakTopic, error) {
	var topics []model.WeakTopic
	err := r.DB.Where("session_id = ?", sessionID).Order("topic asc").Find(&topics).Error
	return topics, err
}

func (r *WeakTopicRepository) ListByUser(userID uint, status string) ([]model.WeakTopic, error) {
	var topics []model.WeakTopic
	query := r.DB.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at desc").Find(&topics).Error
	return topics, err
}
