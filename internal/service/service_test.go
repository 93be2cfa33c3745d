package service

import (
	"os"
	"testing"

	"dialab-go/internal/model"
	"dialab-go/internal/repository"
	"dialab-go/pkg/log"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestMain 初始化全局 logger，被测代码会调用 pkg/log。
func TestMain(m *testing.M) {
	log.Init("error", "json", "")
	os.Exit(m.Run())
}

// newTestDB 打开一个内存 sqlite 数据库，约束行为与生产 MySQL 一致
// （唯一索引、外键、错误翻译）。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.ChatLog{}))
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	chatLogs repository.ChatLogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	return &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		chatLogs: repository.NewChatLogRepository(db),
	}
}
