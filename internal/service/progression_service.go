package service

import (
	"errors"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressionService 持久进度账本与解锁规则的唯一读写路径。
// 首级永远解锁；第 n+1 级仅在第 n 级标记完成后解锁；解锁单向且单调，
// 后续任何失败尝试都不会把已完成的等级或其上方等级重新锁住。
type ProgressionService struct {
	Repo   *repository.SkillProgressRepository
	Ladder model.LevelLadder
	DB     *gorm.DB
}

func NewProgressionService(repo *repository.SkillProgressRepository, ladder model.LevelLadder, db *gorm.DB) *ProgressionService {
	return &ProgressionService{Repo: repo, Ladder: ladder, DB: db}
}

// RecordAttempt 把一次已完成会话记入账本：尝试次数 +1、最好成绩抬升、
// 通过则标记完成并解锁下一级。以会话 ID 为幂等键，同一会话重复记账不生效。
// 通过 tx 传入事务句柄，让记账与会话完成写入同属一次原子提交。
func (s *ProgressionService) RecordAttempt(tx *gorm.DB, userID uint, skill, level, sessionID string, score int, passed bool) error {
	idx := s.Ladder.IndexOf(level)
	if idx < 0 {
		return util.ErrUnknownLevel
	}

	var progress model.SkillProgress
	err := tx.Where("user_id = ? AND skill = ?", userID, skill).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 首次作答该技能，惰性建账
		progress = model.SkillProgress{UserID: userID, Skill: skill}
		if err := progress.SetLevelEntries(s.freshEntries()); err != nil {
			return err
		}
		if err := tx.Create(&progress).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	entries, err := progress.LevelEntries()
	if err != nil {
		return err
	}
	entries = s.reconcile(entries)

	entry := &entries[idx]
	if entry.LastSessionID == sessionID {
		// 同一次物理提交的重试，不再加码
		return nil
	}

	entry.Attempts++
	entry.LastSessionID = sessionID
	if score > entry.BestScore {
		entry.BestScore = score
	}
	if passed && !entry.Completed {
		entry.Completed = true
		if idx+1 < len(entries) {
			entries[idx+1].Unlocked = true
		}
	}

	if err := progress.SetLevelEntries(entries); err != nil {
		return err
	}
	return tx.Save(&progress).Error
}

// IsUnlocked 首级对任何候选人都解锁，包括还没有任何账本记录的人；
// 其余等级取决于前一级的完成标记。
func (s *ProgressionService) IsUnlocked(userID uint, skill, level string) (bool, error) {
	idx := s.Ladder.IndexOf(level)
	if idx < 0 {
		return false, util.ErrUnknownLevel
	}
	if idx == 0 {
		return true, nil
	}

	progress, err := s.Repo.FindByUserSkill(userID, skill)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	entries, err := progress.LevelEntries()
	if err != nil {
		return false, err
	}
	entries = s.reconcile(entries)
	return entries[idx-1].Completed, nil
}

// GetProgress 账本视图；没有记录时按阶梯给出零进度视图，但不落库
func (s *ProgressionService) GetProgress(userID uint, skill string) ([]model.LevelProgress, error) {
	progress, err := s.Repo.FindByUserSkill(userID, skill)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.freshEntries(), nil
	}
	if err != nil {
		return nil, err
	}
	entries, err := progress.LevelEntries()
	if err != nil {
		return nil, err
	}
	return s.reconcile(entries), nil
}

// SkillOverview 候选人在单个技能上的阶梯视图
type SkillOverview struct {
	Skill  string                `json:"skill"`
	Levels []model.LevelProgress `json:"levels"`
}

// ListSkills 候选人有账本记录的全部技能概览
func (s *ProgressionService) ListSkills(userID uint) ([]SkillOverview, error) {
	records, err := s.Repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]SkillOverview, 0, len(records))
	for _, rec := range records {
		entries, err := rec.LevelEntries()
		if err != nil {
			return nil, err
		}
		out = append(out, SkillOverview{
			Skill:  rec.Skill,
			Levels: s.reconcile(entries),
		})
	}
	return out, nil
}

func (s *ProgressionService) freshEntries() []model.LevelProgress {
	entries := make([]model.LevelProgress, len(s.Ladder))
	for i, lvl := range s.Ladder {
		entries[i] = model.LevelProgress{
			Level:    lvl.Name,
			Unlocked: i == 0,
		}
	}
	return entries
}

// reconcile 把存量账本对齐到当前阶梯：补上新增的等级条目，
// 并重放解锁不变量（首级解锁、完成即解锁下一级）。
func (s *ProgressionService) reconcile(entries []model.LevelProgress) []model.LevelProgress {
	byLevel := make(map[string]model.LevelProgress, len(entries))
	for _, e := range entries {
		byLevel[e.Level] = e
	}

	out := make([]model.LevelProgress, len(s.Ladder))
	for i, lvl := range s.Ladder {
		if e, ok := byLevel[lvl.Name]; ok {
			out[i] = e
		} else {
			out[i] = model.LevelProgress{Level: lvl.Name}
		}
	}

	out[0].Unlocked = true
	for i := 0; i+1 < len(out); i++ {
		if out[i].Completed {
			out[i+1].Unlocked = true
		}
	}
	return out
}
