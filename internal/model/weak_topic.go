package model

const (
	WeakTopicStatusNeedsReview = "needs_review"
	WeakTopicStatusInProgress  = "in_progress"
	WeakTopicStatusCompleted   = "completed"
	WeakTopicStatusMastered    = "mastered"
)

// WeakTopicThreshold 正确率严格低于该值的主题被标记为薄弱主题
const WeakTopicThreshold = 60

// WeakTopic (候选人, 会话, 主题) 三元组：该会话中该主题正确率低于阈值的记录
// swagger:model WeakTopic
type WeakTopic struct {
	BaseModel

	UserID    uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SessionID string `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	Topic     string `gorm:"size:100;not null" json:"topic"`

	WrongCount  int `json:"wrongCount"`
	TotalCount  int `json:"totalCount"`
	AccuracyPct int `json:"accuracyPct"` // 100 * correct / total，仅基于本会话题目

	Status string `gorm:"size:20;default:'needs_review'" json:"status"`
}

func (WeakTopic) TableName() string {
	return "weak_topics"
}

// Remediated 该主题是否已补救到位（completed 或 mastered 均计入资格进度）
func (w *WeakTopic) Remediated() bool {
	return w.Status == WeakTopicStatusCompleted || w.Status == WeakTopicStatusMastered
}
