package service

import (
	"errors"
	"testing"
	"time"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/testhelpers"
	"skill_assess_backend/internal/util"

	"gorm.io/gorm"
)

func newRetestService(db *gorm.DB) *RetestService {
	return NewRetestService(
		repository.NewWeakTopicRepository(db),
		repository.NewRetestEligibilityRepository(db),
		db,
	)
}

// seedFailedSession 造一个失败会话及其薄弱主题和资格记录
func seedFailedSession(t *testing.T, db *gorm.DB, userID uint, topics []string) (string, []model.WeakTopic) {
	t.Helper()

	session := &model.EvaluationSession{
		UserID:    userID,
		Skill:     "sql",
		Level:     "easy",
		Status:    model.SessionStatusFailed,
		StartedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(23 * time.Hour),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	weak := make([]model.WeakTopic, len(topics))
	for i, topic := range topics {
		weak[i] = model.WeakTopic{
			UserID:     userID,
			SessionID:  session.ID,
			Topic:      topic,
			WrongCount: 2,
			TotalCount: 2,
			Status:     model.WeakTopicStatusNeedsReview,
		}
	}
	if err := db.Create(&weak).Error; err != nil {
		t.Fatalf("failed to seed weak topics: %v", err)
	}

	elig := &model.RetestEligibility{
		UserID:         userID,
		SessionID:      session.ID,
		Skill:          "sql",
		Level:          "easy",
		RequiredTopics: len(topics),
	}
	if err := db.Create(elig).Error; err != nil {
		t.Fatalf("failed to seed eligibility: %v", err)
	}
	return session.ID, weak
}

func TestEligibilityFlipsOnLastTopic(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	sessionID, weak := seedFailedSession(t, db, 1, []string{"Forms", "Tables"})

	// 补救第一个主题后还不够格
	if _, err := svc.MarkTopicRemediated(1, weak[0].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}
	eligible, err := svc.CanRetest(1, sessionID)
	if err != nil {
		t.Fatalf("CanRetest failed: %v", err)
	}
	if eligible {
		t.Error("one of two topics remediated must not grant a retest")
	}

	// 补救最后一个主题，资格翻转
	if _, err := svc.MarkTopicRemediated(1, weak[1].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}
	eligible, err = svc.CanRetest(1, sessionID)
	if err != nil {
		t.Fatalf("CanRetest failed: %v", err)
	}
	if !eligible {
		t.Error("all topics remediated should grant a retest")
	}
}

func TestMasteredCountsAsRemediated(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	sessionID, weak := seedFailedSession(t, db, 1, []string{"Forms"})

	if _, err := svc.UpdateTopicStatus(1, weak[0].ID, model.WeakTopicStatusMastered); err != nil {
		t.Fatalf("UpdateTopicStatus failed: %v", err)
	}
	eligible, err := svc.CanRetest(1, sessionID)
	if err != nil {
		t.Fatalf("CanRetest failed: %v", err)
	}
	if !eligible {
		t.Error("mastered must count toward eligibility just like completed")
	}
}

func TestStatusDowngradeRevokesEligibility(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	sessionID, weak := seedFailedSession(t, db, 1, []string{"Forms"})

	if _, err := svc.MarkTopicRemediated(1, weak[0].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}
	// 降级回 in_progress 后资格随之收回
	if _, err := svc.UpdateTopicStatus(1, weak[0].ID, model.WeakTopicStatusInProgress); err != nil {
		t.Fatalf("UpdateTopicStatus failed: %v", err)
	}

	eligible, err := svc.CanRetest(1, sessionID)
	if err != nil {
		t.Fatalf("CanRetest failed: %v", err)
	}
	if eligible {
		t.Error("downgrading the topic must revoke eligibility")
	}

	elig, err := repository.NewRetestEligibilityRepository(db).FindBySession(sessionID)
	if err != nil {
		t.Fatalf("FindBySession failed: %v", err)
	}
	if elig.CompletedTopics != 0 {
		t.Errorf("completed count must follow the downgrade, got %d", elig.CompletedTopics)
	}
}

func TestRemediatedTransitionsDoNotDoubleCount(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	sessionID, weak := seedFailedSession(t, db, 1, []string{"Forms", "Tables"})

	// completed -> mastered 没有跨过补救边界，计数不动
	if _, err := svc.MarkTopicRemediated(1, weak[0].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}
	if _, err := svc.UpdateTopicStatus(1, weak[0].ID, model.WeakTopicStatusMastered); err != nil {
		t.Fatalf("UpdateTopicStatus failed: %v", err)
	}

	elig, err := repository.NewRetestEligibilityRepository(db).FindBySession(sessionID)
	if err != nil {
		t.Fatalf("FindBySession failed: %v", err)
	}
	if elig.CompletedTopics != 1 {
		t.Errorf("completed->mastered must not double count, got %d", elig.CompletedTopics)
	}
}

func TestConsumeRetestSingleUse(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	sessionID, weak := seedFailedSession(t, db, 1, []string{"Forms"})

	if _, err := svc.MarkTopicRemediated(1, weak[0].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}
	if err := svc.ConsumeRetest(db, 1, "sql", "easy"); err != nil {
		t.Fatalf("ConsumeRetest failed: %v", err)
	}

	// 消费后即使名义上仍然补救到位也不再放行
	eligible, err := svc.CanRetest(1, sessionID)
	if err != nil {
		t.Fatalf("CanRetest failed: %v", err)
	}
	if eligible {
		t.Error("a consumed retest must not be granted again")
	}

	// 无待用资格时消费是无事发生，不报错
	if err := svc.ConsumeRetest(db, 1, "sql", "easy"); err != nil {
		t.Errorf("consuming with nothing pending should be a no-op, got %v", err)
	}
}

func TestPendingRetest(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	_, weak := seedFailedSession(t, db, 1, []string{"Forms"})

	pending, err := svc.PendingRetest(1, "sql", "easy")
	if err != nil {
		t.Fatalf("PendingRetest failed: %v", err)
	}
	if pending != nil {
		t.Error("no pending retest before remediation")
	}

	if _, err := svc.MarkTopicRemediated(1, weak[0].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}
	pending, err = svc.PendingRetest(1, "sql", "easy")
	if err != nil {
		t.Fatalf("PendingRetest failed: %v", err)
	}
	if pending == nil {
		t.Fatal("expected a pending retest after full remediation")
	}

	if err := svc.ConsumeRetest(db, 1, "sql", "easy"); err != nil {
		t.Fatalf("ConsumeRetest failed: %v", err)
	}
	pending, err = svc.PendingRetest(1, "sql", "easy")
	if err != nil {
		t.Fatalf("PendingRetest failed: %v", err)
	}
	if pending != nil {
		t.Error("consumed retest must no longer be pending")
	}
}

func TestListUserWeakTopics(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	_, weak := seedFailedSession(t, db, 1, []string{"Forms", "Tables"})
	seedFailedSession(t, db, 2, []string{"Joins"})

	if _, err := svc.MarkTopicRemediated(1, weak[0].ID); err != nil {
		t.Fatalf("MarkTopicRemediated failed: %v", err)
	}

	all, err := svc.ListUserWeakTopics(1, "")
	if err != nil {
		t.Fatalf("ListUserWeakTopics failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 topics for user 1, got %d", len(all))
	}

	open, err := svc.ListUserWeakTopics(1, model.WeakTopicStatusNeedsReview)
	if err != nil {
		t.Fatalf("ListUserWeakTopics failed: %v", err)
	}
	if len(open) != 1 || open[0].Topic != "Tables" {
		t.Errorf("expected just Tables still open, got %v", open)
	}

	if _, err := svc.ListUserWeakTopics(1, "done"); !errors.Is(err, util.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer for bad filter, got %v", err)
	}
}

func TestCanRetestNoEligibilityRecord(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)

	_, err := svc.CanRetest(1, "no-such-session")
	if !errors.Is(err, util.ErrNoEligibilityRecord) {
		t.Errorf("expected ErrNoEligibilityRecord, got %v", err)
	}
}

func TestUpdateTopicStatusOwnership(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	_, weak := seedFailedSession(t, db, 1, []string{"Forms"})

	if _, err := svc.UpdateTopicStatus(2, weak[0].ID, model.WeakTopicStatusCompleted); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for another user's topic, got %v", err)
	}
}

func TestUpdateTopicStatusInvalidValue(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)
	_, weak := seedFailedSession(t, db, 1, []string{"Forms"})

	if _, err := svc.UpdateTopicStatus(1, weak[0].ID, "finished"); !errors.Is(err, util.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer for unknown status, got %v", err)
	}
}

func TestUpdateTopicStatusNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRetestService(db)

	if _, err := svc.UpdateTopicStatus(1, 999, model.WeakTopicStatusCompleted); !errors.Is(err, util.ErrWeakTopicNotFound) {
		t.Errorf("expected ErrWeakTopicNotFound, got %v", err)
	}
}
