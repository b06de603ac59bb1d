package model

import "testing"

func TestLadderOrdering(t *testing.T) {
	if DefaultLadder.First() != "easy" {
		t.Errorf("expected easy first, got %s", DefaultLadder.First())
	}
	if next := DefaultLadder.Next("easy"); next != "medium" {
		t.Errorf("expected medium after easy, got %s", next)
	}
	if next := DefaultLadder.Next("advanced"); next != "" {
		t.Errorf("last level has no successor, got %s", next)
	}
	if next := DefaultLadder.Next("legendary"); next != "" {
		t.Errorf("unknown level has no successor, got %s", next)
	}
}

func TestLadderPassingScores(t *testing.T) {
	cases := map[string]int{
		"easy":     60,
		"medium":   70,
		"hard":     75,
		"advanced": 75,
	}
	for level, want := range cases {
		if got := DefaultLadder.PassingScore(level); got != want {
			t.Errorf("%s: expected %d, got %d", level, want, got)
		}
	}
	if DefaultLadder.PassingScore("legendary") != -1 {
		t.Error("unknown level must report -1")
	}
}

func TestCertLadderShape(t *testing.T) {
	// 三级阶梯走同一套结构，解锁和通过线逻辑不感知级数
	if len(CertLadder) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(CertLadder))
	}
	if CertLadder.First() != "BASIC" {
		t.Errorf("expected BASIC first, got %s", CertLadder.First())
	}
	if CertLadder.PassingScore("INTERMEDIATE") != 70 {
		t.Errorf("expected 70 for INTERMEDIATE, got %d", CertLadder.PassingScore("INTERMEDIATE"))
	}
	if !CertLadder.Contains("ADVANCED") || CertLadder.Contains("easy") {
		t.Error("membership must be per ladder")
	}
}
