package model

// LadderLevel 阶梯中的一个等级及其通过线
type LadderLevel struct {
	Name         string `mapstructure:"name" json:"name"`
	PassingScore int    `mapstructure:"passing_score" json:"passingScore"`
}

// LevelLadder 技能内等级的全序。阶梯是配置而不是写死的字符串序列：
// 四级阶梯（easy/medium/hard/advanced）与三级阶梯（BASIC/INTERMEDIATE/ADVANCED）
// 都通过同一种结构在构造时注入。
type LevelLadder []LadderLevel

// DefaultLadder 四级阶梯
var DefaultLadder = LevelLadder{
	{Name: "easy", PassingScore: 60},
	{Name: "medium", PassingScore: 70},
	{Name: "hard", PassingScore: 75},
	{Name: "advanced", PassingScore: 75},
}

// CertLadder 三级阶梯，固定各级通过线 60/70/75
var CertLadder = LevelLadder{
	{Name: "BASIC", PassingScore: 60},
	{Name: "INTERMEDIATE", PassingScore: 70},
	{Name: "ADVANCED", PassingScore: 75},
}

// IndexOf 返回等级在阶梯中的位置，不存在时为 -1
func (l LevelLadder) IndexOf(level string) int {
	for i, entry := range l {
		if entry.Name == level {
			return i
		}
	}
	return -1
}

// Contains 等级是否属于该阶梯
func (l LevelLadder) Contains(level string) bool {
	return l.IndexOf(level) >= 0
}

// First 阶梯首级名称，空阶梯返回空串
func (l LevelLadder) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0].Name
}

// Next 返回紧随其后的等级；已是末级或不在阶梯中返回空串
func (l LevelLadder) Next(level string) string {
	idx := l.IndexOf(level)
	if idx < 0 || idx+1 >= len(l) {
		return ""
	}
	return l[idx+1].Name
}

// PassingScore 该等级的通过线；不在阶梯中时返回 -1
func (l LevelLadder) PassingScore(level string) int {
	idx := l.IndexOf(level)
	if idx < 0 {
		return -1
	}
	return l[idx].PassingScore
}
