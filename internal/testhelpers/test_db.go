package testhelpers

import (
	"fmt"
	"testing"

	"skill_assess_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为单个测试创建隔离的内存 SQLite 库并完成建表。
// 以测试名作为库名，cache=shared 保证同一测试内多个连接看到同一份数据。
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.EvaluationSession{},
		&model.AnswerSubmission{},
		&model.WeakTopic{},
		&model.RetestEligibility{},
		&model.SkillProgress{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}
