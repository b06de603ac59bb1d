package service

import (
	"testing"
	"time"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/testhelpers"

	"gorm.io/gorm"
)

func seedStatsSession(t *testing.T, db *gorm.DB, skill, status string, score *int) *model.EvaluationSession {
	t.Helper()
	s := &model.EvaluationSession{
		UserID:    1,
		Skill:     skill,
		Level:     "easy",
		Status:    status,
		Score:     score,
		StartedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(23 * time.Hour),
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return s
}

func intPtr(v int) *int { return &v }

func TestGetAttemptStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewStatsService(db)

	seedStatsSession(t, db, "sql", model.SessionStatusPassed, intPtr(80))
	seedStatsSession(t, db, "sql", model.SessionStatusFailed, intPtr(40))
	seedStatsSession(t, db, "sql", model.SessionStatusExpired, nil)
	seedStatsSession(t, db, "golang", model.SessionStatusPassed, intPtr(90))

	stats, err := svc.GetAttemptStats("sql", "", nil, nil)
	if err != nil {
		t.Fatalf("GetAttemptStats failed: %v", err)
	}
	if stats["totalSessions"].(int64) != 3 {
		t.Errorf("expected 3 sessions for sql, got %v", stats["totalSessions"])
	}
	// 平均分只算有分数的会话：(80+40)/2
	if stats["avgScore"].(float64) != 60 {
		t.Errorf("expected avg 60, got %v", stats["avgScore"])
	}
	if stats["expiredCount"].(int64) != 1 {
		t.Errorf("expected 1 expired, got %v", stats["expiredCount"])
	}
	passRate := stats["passRate"].(float64)
	if passRate < 0.33 || passRate > 0.34 {
		t.Errorf("expected pass rate ~1/3, got %v", passRate)
	}
}

func TestGetAttemptStatsEmpty(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewStatsService(db)

	stats, err := svc.GetAttemptStats("sql", "", nil, nil)
	if err != nil {
		t.Fatalf("GetAttemptStats failed: %v", err)
	}
	if stats["totalSessions"].(int64) != 0 {
		t.Errorf("expected 0 sessions, got %v", stats["totalSessions"])
	}
	if stats["passRate"].(float64) != 0 {
		t.Errorf("pass rate on empty data must be 0, got %v", stats["passRate"])
	}
}

func TestGetWeakTopicStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewStatsService(db)

	sqlSession := seedStatsSession(t, db, "sql", model.SessionStatusFailed, intPtr(40))
	otherSession := seedStatsSession(t, db, "golang", model.SessionStatusFailed, intPtr(30))

	topics := []model.WeakTopic{
		{UserID: 1, SessionID: sqlSession.ID, Topic: "Joins", Status: model.WeakTopicStatusNeedsReview},
		{UserID: 1, SessionID: sqlSession.ID, Topic: "Indexes", Status: model.WeakTopicStatusNeedsReview},
		{UserID: 1, SessionID: otherSession.ID, Topic: "Goroutines", Status: model.WeakTopicStatusNeedsReview},
	}
	if err := db.Create(&topics).Error; err != nil {
		t.Fatalf("failed to seed weak topics: %v", err)
	}

	rows, err := svc.GetWeakTopicStats("sql", 10)
	if err != nil {
		t.Fatalf("GetWeakTopicStats failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 topics for sql, got %d", len(rows))
	}
	for _, row := range rows {
		if row["topic"] == "Goroutines" {
			t.Error("weak topics from other skills must be excluded")
		}
	}
}
