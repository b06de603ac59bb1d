package service

import (
	"time"

	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

// StatsService 跨候选人的只读统计，不在引擎的 per-candidate 所有权规则内
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// GetAttemptStats 按 (技能[, 等级]) 汇总：总会话数、平均分、通过率、过期数
func (s *StatsService) GetAttemptStats(skill, level string, start, end *time.Time) (map[string]interface{}, error) {
	query := s.DB.Model(&model.EvaluationSession{}).Where("skill = ?", skill)
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if start != nil {
		query = query.Where("started_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("started_at <= ?", *end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var avgScore float64
	var passedCount int64
	var expiredCount int64
	if total > 0 {
		completed := query.Session(&gorm.Session{}).Where("score IS NOT NULL")
		if err := completed.Select("COALESCE(AVG(score), 0)").Scan(&avgScore).Error; err != nil {
			return nil, err
		}
		if err := query.Session(&gorm.Session{}).Where("status = ?", model.SessionStatusPassed).Count(&passedCount).Error; err != nil {
			return nil, err
		}
		if err := query.Session(&gorm.Session{}).Where("status = ?", model.SessionStatusExpired).Count(&expiredCount).Error; err != nil {
			return nil, err
		}
	}

	stats := map[string]interface{}{
		"totalSessions": total,
		"avgScore":      avgScore,
		"expiredCount":  expiredCount,
		"passRate": func() float64 {
			if total == 0 {
				return 0
			}
			return float64(passedCount) / float64(total)
		}(),
	}
	return stats, nil
}

// GetWeakTopicStats 题库侧视角：各主题被标记薄弱的次数，用于出题侧复盘
func (s *StatsService) GetWeakTopicStats(skill string, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 10
	}
	type row struct {
		Topic string
		Count int64
	}
	var rows []row
	err := s.DB.Model(&model.WeakTopic{}).
		Select("weak_topics.topic AS topic, COUNT(*) AS count").
		Joins("JOIN evaluation_sessions ON evaluation_sessions.id = weak_topics.session_id").
		Where("evaluation_sessions.skill = ?", skill).
		Group("weak_topics.topic").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		out[i] = map[string]interface{}{"topic": r.Topic, "flagged": r.Count}
	}
	return out, nil
}
