package model

import "encoding/json"

// LevelProgress 进度账本中单个等级的状态
type LevelProgress struct {
	Level         string `json:"level"`
	Completed     bool   `json:"completed"`
	BestScore     int    `json:"bestScore"`
	Attempts      int    `json:"attempts"`
	Unlocked      bool   `json:"unlocked"`
	LastSessionID string `json:"lastSessionId,omitempty"` // 幂等键：同一会话的重复记账不生效
}

// SkillProgress 每个 (候选人, 技能) 唯一的持久进度账本，首次作答时惰性创建
// swagger:model SkillProgress
type SkillProgress struct {
	BaseModel

	UserID uint   `gorm:"index:idx_user_skill_progress,unique;type:bigint unsigned;not null" json:"userId"`
	Skill  string `gorm:"size:100;index:idx_user_skill_progress,unique;not null" json:"skill"`
	Levels string `gorm:"type:json" json:"levels"` // []LevelProgress，按阶梯顺序
}

func (SkillProgress) TableName() string {
	return "skill_progresses"
}

// LevelEntries 解出账本的等级条目；脏数据直接报错而不是静默吞掉
func (p *SkillProgress) LevelEntries() ([]LevelProgress, error) {
	if p.Levels == "" {
		return nil, nil
	}
	var entries []LevelProgress
	if err := json.Unmarshal([]byte(p.Levels), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetLevelEntries 回写等级条目
func (p *SkillProgress) SetLevelEntries(entries []LevelProgress) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	p.Levels = string(data)
	return nil
}
