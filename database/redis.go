// file: database/redis.go
package database

import (
	"context"
	"os"
	"time"

	"crazy88/logging"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

func InitRedis() {
	addr := os.Getenv("C88_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("C88_REDIS_PASSWORD"),
		DB:       0,
		PoolSize: 100, // 连接池大小
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		logging.Log.Fatalf("Failed to connect to Redis: %v", err)
	}

	logging.Log.Info("Redis connection successfully established.")
}
