package model

import "time"

const (
	SessionStatusInProgress = "in_progress"
	SessionStatusPassed     = "passed"
	SessionStatusFailed     = "failed"
	SessionStatusExpired    = "expired"
)

// SessionTimeLimit 单次测评的固定时限
const SessionTimeLimit = 24 * time.Hour

// EvaluationSession 一次限时测评：一个候选人在一个技能/等级组合上的一次作答
// swagger:model EvaluationSession
type EvaluationSession struct {
	UUIDBase

	UserID uint   `gorm:"index:idx_user_skill;type:bigint unsigned;not null" json:"userId"`
	Skill  string `gorm:"size:100;index:idx_user_skill;not null" json:"skill"`
	Level  string `gorm:"size:50;not null" json:"level"`
	Status string `gorm:"size:20;default:'in_progress'" json:"status"`

	StartedAt   time.Time  `json:"startedAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Score          *int   `json:"score,omitempty"` // 聚合得分 0-100，完成前为空
	TotalQuestions int    `json:"totalQuestions"`
	CorrectCount   int    `json:"correctCount"`
	WrongCount     int    `json:"wrongCount"`
	Dimensions     string `gorm:"type:json" json:"dimensions"` // 各维度得分（JSON，未考察的维度为 null）
}

func (EvaluationSession) TableName() string {
	return "evaluation_sessions"
}

// Expired 仅作时间判断，不落库；懒失效由服务层在读路径上执行
func (s *EvaluationSession) Expired(now time.Time) bool {
	return s.Status == SessionStatusInProgress && now.After(s.ExpiresAt)
}

// Finished 会话是否已离开 in_progress（状态机只进不退）
func (s *EvaluationSession) Finished() bool {
	return s.Status != SessionStatusInProgress
}

// AnswerSubmission 候选人在一次会话中对单题的作答记录，提交后不可变
type AnswerSubmission struct {
	BaseModel
	SessionID  string `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Answer     string `gorm:"type:json" json:"answer"` // 提交值（JSON），未作答为空
	Correct    bool   `gorm:"default:false" json:"correct"`
}

func (AnswerSubmission) TableName() string {
	return "answer_submissions"
}
