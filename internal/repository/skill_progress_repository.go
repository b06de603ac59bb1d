package repository

import (
	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type SkillProgressRepository struct {
	DB *gorm.DB
}

func NewSkillProgressRepository(db *gorm.DB) *SkillProgressRepository {
	return &SkillProgressRepository{DB: db}
}

func (r *SkillProgressRepository) Create(p *model.SkillProgress) error {
	return r.DB.Create(p).Error
}

func (r *SkillProgressRepository) Update(p *model.SkillProgress) error {
	return r.DB.Save(p).Error
}

// FindByUserSkill 唯一的权威读取路径；进度从不在调用点各自重算
func (r *SkillProgressRepository) FindByUserSkill(userID uint, skill string) (*model.SkillProgress, error) {
	var p model.SkillProgress
	err := r.DB.Where("user_id = ? AND skill = ?", userID, skill).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SkillProgressRepository) ListByUser(userID uint) ([]model.SkillProgress, error) {
	var ps []model.SkillProgress
	err := r.DB.Where("user_id = ?", userID).Order("skill asc").Find(&ps).Error
	return ps, err
}
