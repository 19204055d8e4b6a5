// file: database/connect.go
package database

import (
	"crazy88/logging"
	"crazy88/models"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func dsn() string {
	if v := os.Getenv("C88_MYSQL_DSN"); v != "" {
		return v
	}
	return "root:123456@tcp(localhost:3306)/crazy88?charset=utf8mb4&parseTime=True&loc=Local"
}

func Connect() {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn()), &gorm.Config{})
	if err != nil {
		logging.Log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		logging.Log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}

	// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
	sqlDB.SetMaxIdleConns(10)

	// SetMaxOpenConns 设置打开数据库连接的最大数量。
	sqlDB.SetMaxOpenConns(100)

	// SetConnMaxLifetime 设置了连接可复用的最大时间。
	// 这对于解决 MySQL 的 'wait_timeout' 问题至关重要。
	sqlDB.SetConnMaxLifetime(time.Hour)

	logging.Log.Info("Database connection successfully established and connection pool configured.")
}

// MigrateTables 建表迁移。状态表/得分表/提交表上的联合唯一索引
// 是全部写入方的并发控制前提，必须先于服务启动存在。
func MigrateTables() {
	err := DB.AutoMigrate(
		&models.GameSession{},
		&models.Team{},
		&models.Assignment{},
		&models.AssignmentStatus{},
		&models.Score{},
		&models.Submission{},
		&models.User{},
	)
	if err != nil {
		logging.Log.Fatalf("Failed to migrate database: %v", err)
	}
	logging.Log.Info("Database migration completed.")
}
