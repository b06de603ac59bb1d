// 题库初始化脚本
//
// 向空库导入一套演示题目（sql 技能，easy 等级），用于首次部署后冒烟
// 验证测评流程。重复执行会按 (技能, 等级, 题干) 去重，不会写入重复题目。
//
// 用法: go run scripts/seed_questions.go

package main

import (
	"log"
	"os"

	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/model"
	"skill_assess_backend/pkg/database"
	"skill_assess_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	questions := []model.Question{
		{
			Skill: "sql", Level: "easy", QuestionType: model.QuestionTypeSingleChoice,
			Content:       "哪个子句用于过滤查询结果的行？",
			Options:       `["WHERE","ORDER BY","GROUP BY","HAVING"]`,
			CorrectAnswer: `"WHERE"`,
			Weight:        5, Topic: "Basics", Order: 1,
			Explanation: "WHERE 在分组前按行过滤；HAVING 作用于分组后。",
		},
		{
			Skill: "sql", Level: "easy", QuestionType: model.QuestionTypeMultiSelect,
			Content:       "以下哪些属于聚合函数？",
			Options:       `["COUNT","SUM","WHERE","AVG"]`,
			CorrectAnswer: `["COUNT","SUM","AVG"]`,
			Weight:        8, Topic: "Aggregates", Order: 2,
		},
		{
			Skill: "sql", Level: "easy", QuestionType: model.QuestionTypeSingleChoice,
			Content:       "外键约束的作用是什么？",
			Options:       `["保证引用完整性","加速查询","压缩存储","自动去重"]`,
			CorrectAnswer: `"保证引用完整性"`,
			Weight:        6, Topic: "Tables", Order: 3,
		},
		{
			Skill: "sql", Level: "easy", QuestionType: model.QuestionTypeCodeReasoning,
			Content:       "SELECT COUNT(*) FROM t WHERE col IS NULL; 对全为 NULL 的 col 返回什么？",
			CorrectAnswer: `"表的总行数"`,
			Weight:        7, Topic: "Nulls", Order: 4,
			Explanation: "COUNT(*) 数行而不是数值，NULL 不影响行的存在。",
		},
		{
			Skill: "sql", Level: "easy", QuestionType: model.QuestionTypeScenario,
			Content:       "报表查询因全表扫描变慢，首先应考虑什么措施？",
			CorrectAnswer: `"为过滤列建立索引"`,
			Weight:        10, Topic: "Indexes", Order: 5,
		},
	}

	inserted := 0
	for _, q := range questions {
		var count int64
		db.Model(&model.Question{}).
			Where("skill = ? AND level = ? AND content = ?", q.Skill, q.Level, q.Content).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&q).Error; err != nil {
			log.Fatalf("写入题目失败: %v", err)
		}
		inserted++
	}

	log.Printf("题库初始化完成，新增 %d 道题目", inserted)
}
