package repository

import (
	"errors"
	"testing"
	"time"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/testhelpers"

	"gorm.io/gorm"
)

func seedSession(t *testing.T, repo *SessionRepository, userID uint, skill, status string, expiresAt time.Time) *model.EvaluationSession {
	t.Helper()
	s := &model.EvaluationSession{
		UserID:    userID,
		Skill:     skill,
		Level:     "easy",
		Status:    status,
		StartedAt: time.Now().Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
	if err := repo.Create(s); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return s
}

func TestFindActiveFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewSessionRepository(db)
	now := time.Now()

	// 已完成、已过期、别的技能、别的候选人都不算活跃
	seedSession(t, repo, 1, "sql", model.SessionStatusPassed, now.Add(time.Hour))
	seedSession(t, repo, 1, "sql", model.SessionStatusInProgress, now.Add(-time.Minute))
	seedSession(t, repo, 1, "golang", model.SessionStatusInProgress, now.Add(time.Hour))
	seedSession(t, repo, 2, "sql", model.SessionStatusInProgress, now.Add(time.Hour))

	if _, err := repo.FindActive(1, "sql", now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected no active session, got err=%v", err)
	}

	active := seedSession(t, repo, 1, "sql", model.SessionStatusInProgress, now.Add(time.Hour))
	found, err := repo.FindActive(1, "sql", now)
	if err != nil {
		t.Fatalf("FindActive failed: %v", err)
	}
	if found.ID != active.ID {
		t.Errorf("expected session %s, got %s", active.ID, found.ID)
	}
}

func TestSessionIDAssignedOnCreate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewSessionRepository(db)

	s := seedSession(t, repo, 1, "sql", model.SessionStatusInProgress, time.Now().Add(time.Hour))
	if s.ID == "" {
		t.Fatal("session id must be assigned on create")
	}
	loaded, err := repo.FindByID(s.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if loaded.UserID != 1 || loaded.Skill != "sql" {
		t.Errorf("unexpected session: %+v", loaded)
	}
}

func TestListByUserPagination(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewSessionRepository(db)
	now := time.Now()

	for i := 0; i < 5; i++ {
		s := &model.EvaluationSession{
			UserID:    1,
			Skill:     "sql",
			Level:     "easy",
			Status:    model.SessionStatusPassed,
			StartedAt: now.Add(-time.Duration(i) * time.Hour),
			ExpiresAt: now.Add(time.Hour),
		}
		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}
	seedSession(t, repo, 2, "sql", model.SessionStatusPassed, now.Add(time.Hour))

	sessions, total, err := repo.ListByUser(1, "sql", 1, 3)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(sessions) != 3 {
		t.Errorf("expected page of 3, got %d", len(sessions))
	}
	// 最近开始的排在前面
	for i := 1; i < len(sessions); i++ {
		if sessions[i].StartedAt.After(sessions[i-1].StartedAt) {
			t.Error("sessions must be ordered by started_at desc")
		}
	}

	rest, _, err := repo.ListByUser(1, "sql", 2, 3)
	if err != nil {
		t.Fatalf("ListByUser page 2 failed: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("expected 2 on the last page, got %d", len(rest))
	}
}

func TestGetAnswersRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewSessionRepository(db)

	s := seedSession(t, repo, 1, "sql", model.SessionStatusPassed, time.Now().Add(time.Hour))
	answers := []model.AnswerSubmission{
		{SessionID: s.ID, QuestionID: 1, Answer: `"A"`, Correct: true},
		{SessionID: s.ID, QuestionID: 2, Correct: false},
	}
	if err := repo.CreateAnswers(answers); err != nil {
		t.Fatalf("CreateAnswers failed: %v", err)
	}

	loaded, err := repo.GetAnswers(s.ID)
	if err != nil {
		t.Fatalf("GetAnswers failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(loaded))
	}

	// 空切片也不报错
	if err := repo.CreateAnswers(nil); err != nil {
		t.Errorf("CreateAnswers with nil should be a no-op, got %v", err)
	}
}
