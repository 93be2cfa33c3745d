package repository

import (
	"testing"

	"dialab-go/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开一个内存 sqlite 数据库用于测试。
// 与生产环境的 MySQL 一样开启 TranslateError，唯一索引和外键约束
// 都由存储层裁决，repository 的错误翻译逻辑因此可以被真实触发。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库随连接消失，限制为单连接以保证所有操作命中同一个库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.ChatLog{}))
	return db
}

// mustCreateUser 写入一个用户并返回其记录。
func mustCreateUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "$2a$10$placeholderplaceholderplace"}
	require.NoError(t, repo.Create(u))
	require.NotZero(t, u.ID)
	return u
}
