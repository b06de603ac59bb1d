package service

import (
	"encoding/json"
	"errors"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/util"
)

// QuestionService 题库管理（管理端）。测评引擎只读取题库，从不回写。
type QuestionService struct {
	Repo   *repository.QuestionRepository
	Ladder model.LevelLadder
}

func NewQuestionService(repo *repository.QuestionRepository, ladder model.LevelLadder) *QuestionService {
	return &QuestionService{Repo: repo, Ladder: ladder}
}

type QuestionRequest struct {
	Skill         string          `json:"skill" binding:"required"`
	Level         string          `json:"level" binding:"required"`
	QuestionType  string          `json:"questionType" binding:"required"`
	Content       string          `json:"content" binding:"required"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage `json:"correctAnswer" binding:"required"`
	Weight        int             `json:"weight"`
	Topic         string          `json:"topic"`
	Order         int             `json:"order"`
	Explanation   string          `json:"explanation"`
}

var validQuestionTypes = map[string]bool{
	model.QuestionTypeSingleChoice:    true,
	model.QuestionTypeMultiSelect:     true,
	model.QuestionTypeScenario:        true,
	model.QuestionTypeCodeReasoning:   true,
	model.QuestionTypeAssertionReason: true,
}

func (s *QuestionService) validate(req *QuestionRequest) error {
	if !validQuestionTypes[req.QuestionType] {
		return errors.New("unknown question type")
	}
	if !s.Ladder.Contains(req.Level) {
		return util.ErrUnknownLevel
	}
	if req.Weight < 0 || req.Weight > 10 {
		return errors.New("weight must be within 1-10")
	}
	choice := req.QuestionType == model.QuestionTypeSingleChoice || req.QuestionType == model.QuestionTypeMultiSelect
	if choice && len(req.Options) == 0 {
		return errors.New("choice questions require options")
	}
	return nil
}

func (s *QuestionService) apply(q *model.Question, req *QuestionRequest) {
	q.Skill = req.Skill
	q.Level = req.Level
	q.QuestionType = req.QuestionType
	q.Content = req.Content
	q.Options = string(req.Options)
	q.CorrectAnswer = string(req.CorrectAnswer)
	q.Weight = req.Weight
	if q.Weight == 0 {
		q.Weight = model.DefaultQuestionWeight
	}
	q.Topic = req.Topic
	q.Order = req.Order
	q.Explanation = req.Explanation
}

func (s *QuestionService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	q := &model.Question{}
	s.apply(q, &req)
	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	q, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	s.apply(q, &req)
	if err := s.Repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	return s.Repo.Delete(id)
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	return s.Repo.FindByID(id)
}

func (s *QuestionService) ListQuestions(skill string, page, limit int) ([]model.Question, int64, error) {
	return s.Repo.List(skill, page, limit)
}

// CandidateQuestion 考生视图，不带正确答案和主题标签
type CandidateQuestion struct {
	ID           uint            `json:"id"`
	QuestionType string          `json:"questionType"`
	Content      string          `json:"content"`
	Options      json.RawMessage `json:"options"`
	Weight       int             `json:"weight"`
	Order        int             `json:"order"`
}

// ListSessionQuestions 按 (技能, 等级) 给出考生作答用的题目列表
func (s *QuestionService) ListSessionQuestions(skill, level string) ([]CandidateQuestion, error) {
	qs, err := s.Repo.ListBySkillLevel(skill, level)
	if err != nil {
		return nil, err
	}
	res := make([]CandidateQuestion, len(qs))
	for i, q := range qs {
		res[i] = CandidateQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Content:      q.Content,
			Options:      json.RawMessage(q.Options),
			Weight:       q.EffectiveWeight(),
			Order:        q.Order,
		}
	}
	return res, nil
}
