package model

// RetestEligibility 将产生薄弱主题的会话与补救目标配对：
// 全部关联 WeakTopic 达到 completed/mastered 后 Eligible 翻转为 true，
// 重测被消费后 RetestTaken 置 true，防止一轮补救换取无限次重测。
// swagger:model RetestEligibility
type RetestEligibility struct {
	BaseModel

	UserID    uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SessionID string `gorm:"uniqueIndex;type:varchar(36);not null" json:"sessionId"`
	Skill     string `gorm:"size:100;not null" json:"skill"`
	Level     string `gorm:"size:50;not null" json:"level"`

	RequiredTopics  int  `json:"requiredTopics"`  // 该会话产生的 WeakTopic 数
	CompletedTopics int  `json:"completedTopics"` // 已补救到位的数量，随 WeakTopic 状态变化同步
	Eligible        bool `gorm:"default:false" json:"eligible"`
	RetestTaken     bool `gorm:"default:false" json:"retestTaken"`
}

func (RetestEligibility) TableName() string {
	return "retest_eligibilities"
}
