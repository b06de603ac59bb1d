package model

const (
	QuestionTypeSingleChoice    = "single_choice"
	QuestionTypeMultiSelect     = "multi_select"
	QuestionTypeScenario        = "scenario"
	QuestionTypeCodeReasoning   = "code_reasoning"
	QuestionTypeAssertionReason = "assertion_reason"
)

// DefaultQuestionWeight 题目难度权重缺省值（1-10）
const DefaultQuestionWeight = 10

// swagger:model Question
type Question struct {
	BaseModel

	Skill         string `gorm:"size:100;index:idx_skill_level;not null" json:"skill"`
	Level         string `gorm:"size:50;index:idx_skill_level;not null" json:"level"`
	QuestionType  string `gorm:"size:50;not null" json:"questionType"`
	Content       string `gorm:"type:text;not null" json:"content"`
	Options       string `gorm:"type:json" json:"options"` // 选择题选项（JSON array），非选择题为空
	CorrectAnswer string `gorm:"type:json" json:"correctAnswer"`
	Weight        int    `gorm:"default:10" json:"weight"`   // 难度权重 1-10，同时作为题目分值
	Topic         string `gorm:"size:100;index" json:"topic"` // 可选主题标签，薄弱主题分析依赖它
	Order         int    `gorm:"default:0" json:"order"`
	Explanation   string `gorm:"type:text" json:"explanation"` // 答案解析
}

func (Question) TableName() string {
	return "questions"
}

// EffectiveWeight 返回题目权重，未设置时落到缺省值
func (q *Question) EffectiveWeight() int {
	if q.Weight <= 0 {
		return DefaultQuestionWeight
	}
	return q.Weight
}

// IsChoice 是否为选择类题型（正确性维度）
func (q *Question) IsChoice() bool {
	return q.QuestionType == QuestionTypeSingleChoice || q.QuestionType == QuestionTypeMultiSelect
}
