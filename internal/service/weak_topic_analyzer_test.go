package service

import (
	"testing"

	"skill_assess_backend/internal/model"
)

func topicScored(topic string, correct bool) ScoredQuestion {
	return ScoredQuestion{
		Question: model.Question{Topic: topic, Weight: 10},
		Answered: true,
		Correct:  correct,
	}
}

func TestIdentifyThresholdBoundary(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(false, nil)

	// 3/5 恰好 60%，不算薄弱；2/5 为 40%，薄弱
	scored := []ScoredQuestion{
		topicScored("Joins", true), topicScored("Joins", true), topicScored("Joins", true),
		topicScored("Joins", false), topicScored("Joins", false),
		topicScored("Indexes", true), topicScored("Indexes", true),
		topicScored("Indexes", false), topicScored("Indexes", false), topicScored("Indexes", false),
	}

	weak := analyzer.Identify(scored)
	if len(weak) != 1 {
		t.Fatalf("expected 1 weak topic, got %d", len(weak))
	}
	if weak[0].Topic != "Indexes" {
		t.Errorf("expected Indexes, got %s", weak[0].Topic)
	}
	if weak[0].AccuracyPct != 40 {
		t.Errorf("expected accuracy 40, got %d", weak[0].AccuracyPct)
	}
	if weak[0].WrongCount != 3 || weak[0].TotalCount != 5 {
		t.Errorf("expected 3 wrong of 5, got %d of %d", weak[0].WrongCount, weak[0].TotalCount)
	}
}

func TestIdentifyExactIntegerComparison(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(false, nil)

	// 5/9 约 55.6%，四舍五入后是 56 但显示值不参与阈值判断
	var scored []ScoredQuestion
	for i := 0; i < 5; i++ {
		scored = append(scored, topicScored("Tx", true))
	}
	for i := 0; i < 4; i++ {
		scored = append(scored, topicScored("Tx", false))
	}

	weak := analyzer.Identify(scored)
	if len(weak) != 1 {
		t.Fatalf("expected Tx weak at 5/9, got %d topics", len(weak))
	}
	if weak[0].AccuracyPct != 56 {
		t.Errorf("expected display accuracy 56, got %d", weak[0].AccuracyPct)
	}

	// 3/5 恰好踩线不薄弱，验证不是用四舍五入后的值比较
	exact := analyzer.Identify([]ScoredQuestion{
		topicScored("Views", true), topicScored("Views", true), topicScored("Views", true),
		topicScored("Views", false), topicScored("Views", false),
	})
	if len(exact) != 0 {
		t.Errorf("60%% exactly should not be weak, got %v", exact)
	}
}

func TestIdentifySortedByTopic(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(false, nil)
	scored := []ScoredQuestion{
		topicScored("Zeta", false),
		topicScored("Alpha", false),
		topicScored("Mid", false),
	}
	weak := analyzer.Identify(scored)
	if len(weak) != 3 {
		t.Fatalf("expected 3 weak topics, got %d", len(weak))
	}
	for i, want := range []string{"Alpha", "Mid", "Zeta"} {
		if weak[i].Topic != want {
			t.Errorf("position %d: expected %s, got %s", i, want, weak[i].Topic)
		}
	}
}

func TestIdentifyUntaggedExcludedByDefault(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(false, []string{"joins"})
	// 无标签题目缺省被整体排除，即使题干里出现主题词也不做猜测
	scored := []ScoredQuestion{
		{
			Question: model.Question{Content: "Explain how joins work in SQL", Weight: 10},
			Answered: true,
			Correct:  false,
		},
	}
	weak := analyzer.Identify(scored)
	if len(weak) != 0 {
		t.Errorf("untagged questions must be excluded when fallback is off, got %v", weak)
	}
}

func TestIdentifyKeywordFallback(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(true, []string{"joins", "indexes"})
	scored := []ScoredQuestion{
		{
			Question: model.Question{Content: "Explain how JOINS work", Weight: 10},
			Answered: true,
			Correct:  false,
		},
		{
			Question: model.Question{Content: "nothing matches here", Weight: 10},
			Answered: true,
			Correct:  false,
		},
	}
	weak := analyzer.Identify(scored)
	if len(weak) != 1 {
		t.Fatalf("expected 1 weak topic via fallback, got %d", len(weak))
	}
	if weak[0].Topic != "joins" {
		t.Errorf("expected joins, got %s", weak[0].Topic)
	}
}

func TestSetFallbackTakesEffect(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(false, nil)
	scored := []ScoredQuestion{
		{
			Question: model.Question{Content: "a question about joins", Weight: 10},
			Answered: true,
			Correct:  false,
		},
	}

	if weak := analyzer.Identify(scored); len(weak) != 0 {
		t.Fatalf("fallback off: expected no weak topics, got %v", weak)
	}

	analyzer.SetFallback(true, []string{"joins"})
	if weak := analyzer.Identify(scored); len(weak) != 1 || weak[0].Topic != "joins" {
		t.Errorf("fallback on: expected joins flagged, got %v", weak)
	}

	analyzer.SetFallback(false, nil)
	if weak := analyzer.Identify(scored); len(weak) != 0 {
		t.Errorf("fallback off again: expected no weak topics, got %v", weak)
	}
}

func TestIdentifyFallbackEarliestMatchWins(t *testing.T) {
	analyzer := NewWeakTopicAnalyzer(true, []string{"indexes", "joins"})
	scored := []ScoredQuestion{
		{
			Question: model.Question{Content: "joins before indexes in this prompt", Weight: 10},
			Answered: true,
			Correct:  false,
		},
	}
	weak := analyzer.Identify(scored)
	if len(weak) != 1 || weak[0].Topic != "joins" {
		t.Errorf("expected earliest keyword joins to win, got %v", weak)
	}
}
