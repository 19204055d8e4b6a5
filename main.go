// file: main.go
package main

import (
	"os"
	"strconv"
	"time"

	"crazy88/controllers"
	"crazy88/database"
	"crazy88/logging"
	"crazy88/routes"
	"crazy88/services"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logging.Bootstrap()

	database.Connect()
	database.InitRedis()
	database.MigrateTables()

	controllers.InitEvidenceStore(services.NewObjectStoreFromEnv())

	// 排行榜聚合走自己的轮询节奏，与前端 1 秒一跳的计时器刻度无关
	interval := 30 * time.Second
	if v := os.Getenv("C88_SCOREBOARD_INTERVAL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			interval = time.Duration(sec) * time.Second
		}
	}
	sessionID := uint32(1)
	if v := os.Getenv("C88_SESSION_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			sessionID = uint32(id)
		}
	}
	stopPolling := services.Scoreboard().StartPolling(sessionID, interval)
	defer stopPolling()

	r := routes.SetupRouter()

	addr := os.Getenv("C88_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logging.Log.Infof("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
