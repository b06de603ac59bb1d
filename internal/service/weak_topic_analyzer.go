package service

import (
	"math"
	"sort"
	"strings"
	"sync"

	"skill_assess_backend/internal/model"
)

// TopicStat 单个主题在一次会话内的作答统计
type TopicStat struct {
	Topic        string `json:"topic"`
	CorrectCount int    `json:"correctCount"`
	WrongCount   int    `json:"wrongCount"`
	TotalCount   int    `json:"totalCount"`
	AccuracyPct  int    `json:"accuracyPct"`
}

// WeakTopicAnalyzer 按主题标签聚合判分结果，找出正确率低于阈值的主题。
// 无主题标签的题目默认被整体排除；关键词回退匹配是单独的低置信度路径，
// 需要显式开启，宁可漏报也不猜测。兜底开关支持配置热更新。
type WeakTopicAnalyzer struct {
	mu               sync.RWMutex
	fallbackMatching bool
	topicKeywords    []string
}

func NewWeakTopicAnalyzer(fallback bool, keywords []string) *WeakTopicAnalyzer {
	return &WeakTopicAnalyzer{
		fallbackMatching: fallback,
		topicKeywords:    keywords,
	}
}

// SetFallback 运行时更新兜底匹配配置
func (a *WeakTopicAnalyzer) SetFallback(enabled bool, keywords []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallbackMatching = enabled
	a.topicKeywords = keywords
}

func (a *WeakTopicAnalyzer) fallbackSnapshot() (bool, []string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.fallbackMatching, a.topicKeywords
}

// Identify 返回正确率严格低于 60% 的主题统计，主题名升序。
// 正确率只基于本会话的题目，不跨会话累计。
func (a *WeakTopicAnalyzer) Identify(scored []ScoredQuestion) []TopicStat {
	fallback, keywords := a.fallbackSnapshot()
	tallies := make(map[string]*TopicStat)

	for _, sq := range scored {
		topic := topicOf(&sq.Question, fallback, keywords)
		if topic == "" {
			continue
		}
		stat, ok := tallies[topic]
		if !ok {
			stat = &TopicStat{Topic: topic}
			tallies[topic] = stat
		}
		stat.TotalCount++
		if sq.Correct {
			stat.CorrectCount++
		} else {
			stat.WrongCount++
		}
	}

	var weak []TopicStat
	for _, stat := range tallies {
		// 阈值比较用精确整数运算，展示值才做四舍五入
		if stat.CorrectCount*100 >= stat.TotalCount*model.WeakTopicThreshold {
			continue
		}
		stat.AccuracyPct = int(math.Round(100 * float64(stat.CorrectCount) / float64(stat.TotalCount)))
		weak = append(weak, *stat)
	}

	sort.Slice(weak, func(i, j int) bool { return weak[i].Topic < weak[j].Topic })
	return weak
}

// topicOf 结构化标签优先；仅在显式开启兜底时才对题干做关键词匹配
func topicOf(q *model.Question, fallback bool, keywords []string) string {
	if q.Topic != "" {
		return q.Topic
	}
	if !fallback {
		return ""
	}
	return matchKeyword(q.Content, keywords)
}

// matchKeyword 低置信度路径：题干中出现词表里的主题词即归入该主题。
// 多个命中取题干中最先出现的那个；没有命中仍视为无主题。
func matchKeyword(content string, keywords []string) string {
	lower := strings.ToLower(content)
	best := ""
	bestIdx := -1
	for _, kw := range keywords {
		idx := strings.Index(lower, strings.ToLower(kw))
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best = kw
			bestIdx = idx
		}
	}
	return best
}
