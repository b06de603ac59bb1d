package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 维度名称：按题型划分的次级得分
const (
	DimensionCorrectness    = "correctness"
	DimensionReasoning      = "reasoning"
	DimensionDebugging      = "debugging"
	DimensionDesignThinking = "design_thinking"
)
