package service

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/util"
)

// SubmitAnswer 提交的单题作答；Answer 为空或 JSON null 视为未作答
type SubmitAnswer struct {
	QuestionID uint            `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
}

// ScoredQuestion 判分后的单题结果
type ScoredQuestion struct {
	Question model.Question  `json:"question"`
	Answer   json.RawMessage `json:"answer,omitempty"`
	Answered bool            `json:"answered"`
	Correct  bool            `json:"correct"`
}

// ScoreResult 一次会话的判分汇总
type ScoreResult struct {
	Scored       []ScoredQuestion `json:"scored"`
	Score        int              `json:"score"` // 聚合得分 0-100
	EarnedWeight int              `json:"earnedWeight"`
	TotalWeight  int              `json:"totalWeight"`
	CorrectCount int              `json:"correctCount"`
	WrongCount   int              `json:"wrongCount"`
}

// ScoringEngine 把 (题目, 作答) 列表判成每题对错和聚合得分。
// 纯计算，无副作用：相同输入必然得到相同输出。
type ScoringEngine struct{}

func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Score 判分。聚合得分 = round(100 * 拿到的权重 / 总权重)，按题目难度权重
// 而不是题数折算，最后夹在 [0,100]。空题集判分没有意义，直接报错。
func (e *ScoringEngine) Score(questions []model.Question, answers []SubmitAnswer) (*ScoreResult, error) {
	if len(questions) == 0 {
		return nil, util.ErrEmptyQuestionSet
	}

	answerMap := make(map[uint]json.RawMessage, len(answers))
	for _, a := range answers {
		answerMap[a.QuestionID] = a.Answer
	}

	result := &ScoreResult{
		Scored: make([]ScoredQuestion, 0, len(questions)),
	}

	for _, q := range questions {
		weight := q.EffectiveWeight()
		result.TotalWeight += weight

		raw, ok := answerMap[q.ID]
		answered := ok && !isNullAnswer(raw)

		sq := ScoredQuestion{
			Question: q,
			Answered: answered,
		}
		if answered {
			sq.Answer = raw
			sq.Correct = e.isCorrect(&q, raw)
		}
		// 未作答永远判错，但不报错

		if sq.Correct {
			result.CorrectCount++
			result.EarnedWeight += weight
		} else {
			result.WrongCount++
		}
		result.Scored = append(result.Scored, sq)
	}

	score := int(math.Round(100 * float64(result.EarnedWeight) / float64(result.TotalWeight)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	result.Score = score

	return result, nil
}

func (e *ScoringEngine) isCorrect(q *model.Question, raw json.RawMessage) bool {
	if q.QuestionType == model.QuestionTypeMultiSelect {
		return setsEqual(raw, json.RawMessage(q.CorrectAnswer))
	}
	// 其余题型：提交值与正确答案精确匹配（JSON 归一化后比较）
	return canonical(raw) == canonical(json.RawMessage(q.CorrectAnswer))
}

func isNullAnswer(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// canonical 归一化 JSON 值再转回字符串，抹平键序和空白差异；
// 非法 JSON 返回原始文本，比较时自然不相等
func canonical(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// setsEqual 多选题按集合相等判定，元素顺序与重复不影响结果
func setsEqual(a, b json.RawMessage) bool {
	as, aok := elementSet(a)
	bs, bok := elementSet(b)
	if !aok || !bok {
		return false
	}
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func elementSet(raw json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[canonical(item)] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, true
}
