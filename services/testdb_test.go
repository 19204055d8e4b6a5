// file: services/testdb_test.go
package services

import (
	"testing"
	"time"

	"crazy88/database"
	"crazy88/logging"
	"crazy88/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB 换上内存 SQLite，让状态机测试不依赖 MySQL。
// 服务层都走 database.DB 包级变量，这里直接替换即可。
func setupTestDB(t *testing.T) {
	t.Helper()

	if logging.Log == nil {
		logging.Log = logrus.New()
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只能用单连接，否则每个连接各有一份空库
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.GameSession{},
		&models.Team{},
		&models.Assignment{},
		&models.AssignmentStatus{},
		&models.Score{},
		&models.Submission{},
		&models.User{},
	))

	database.DB = db
	// 本测试触发的异步刷新协程必须在下一个测试换库前全部结束
	t.Cleanup(drainNudges)
}

// seedRunningSession 造一场正在计时的比赛
func seedRunningSession(t *testing.T, id uint32, doublePoints bool) *models.GameSession {
	t.Helper()
	start := time.Now().Add(-10 * time.Minute)
	s := models.GameSession{
		ID:                 id,
		SessionName:        "testrun",
		Duration:           3600,
		StartTime:          &start,
		IsRunning:          true,
		DoublePointsActive: doublePoints,
	}
	require.NoError(t, database.DB.Create(&s).Error)
	return &s
}

func seedTeam(t *testing.T, id uint32, sessionID uint32, name string, cat models.TeamCategory) *models.Team {
	t.Helper()
	team := models.Team{
		ID:         id,
		TeamName:   name,
		Category:   cat,
		SessionID:  sessionID,
		AccessCode: "testcode",
	}
	require.NoError(t, database.DB.Create(&team).Error)
	return &team
}

func seedAssignment(t *testing.T, number uint16, basePoints uint, mediaKinds string) *models.Assignment {
	t.Helper()
	a := models.Assignment{
		Number:     number,
		Title:      "opdracht",
		BasePoints: basePoints,
		MediaKinds: mediaKinds,
		Active:     true,
	}
	require.NoError(t, database.DB.Create(&a).Error)
	return &a
}

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(model).Count(&n).Error)
	return n
}
