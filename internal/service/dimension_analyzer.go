package service

import (
	"math"

	"skill_assess_backend/internal/model"
)

// DimensionScores 按题型划分的次级维度得分。
// 某维度没有可判题目时为 nil（区分"未考察"与"考察了但得 0 分"）。
type DimensionScores struct {
	Correctness    *int `json:"correctness"`
	Reasoning      *int `json:"reasoning"`
	Debugging      *int `json:"debugging"`
	DesignThinking *int `json:"design_thinking"`
}

// DimensionAnalyzer 从判分结果推导次级技能维度得分。
// 正确性取选择类题型，推理取情境题，调试取代码推理题，设计思维取断言-理由题。
type DimensionAnalyzer struct{}

func NewDimensionAnalyzer() *DimensionAnalyzer {
	return &DimensionAnalyzer{}
}

func (a *DimensionAnalyzer) Derive(scored []ScoredQuestion) DimensionScores {
	var (
		choice    weightTally
		scenario  weightTally
		codeR     weightTally
		assertion weightTally
	)

	for _, sq := range scored {
		weight := sq.Question.EffectiveWeight()
		switch sq.Question.QuestionType {
		case model.QuestionTypeSingleChoice, model.QuestionTypeMultiSelect:
			choice.add(weight, sq.Correct)
		case model.QuestionTypeScenario:
			scenario.add(weight, sq.Correct)
		case model.QuestionTypeCodeReasoning:
			codeR.add(weight, sq.Correct)
		case model.QuestionTypeAssertionReason:
			assertion.add(weight, sq.Correct)
		}
	}

	return DimensionScores{
		Correctness:    choice.percent(),
		Reasoning:      scenario.percent(),
		Debugging:      codeR.percent(),
		DesignThinking: assertion.percent(),
	}
}

type weightTally struct {
	earned int
	total  int
}

func (t *weightTally) add(weight int, correct bool) {
	t.total += weight
	if correct {
		t.earned += weight
	}
}

// percent 分区内拿到权重的百分比；分区为空返回 nil 而不是 0
func (t *weightTally) percent() *int {
	if t.total == 0 {
		return nil
	}
	p := int(math.Round(100 * float64(t.earned) / float64(t.total)))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return &p
}
