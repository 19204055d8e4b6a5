// file: controllers/scoreboard_controller.go
package controllers

import (
	"crazy88/services"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
)

// GetScoreboard 公开排行榜。读路径：Redis 短缓存 → 内存快照 → 同步刷新兜底。
// 快照由聚合器在自己的轮询节奏上重算，这里从不直接算。
func GetScoreboard(c *gin.Context) {
	sessionID := sessionIDFromRequest(c)

	data, fromCache, err := services.CachedSnapshotJSON(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	msg := "success"
	if fromCache {
		msg = "success (from cache)"
	}
	c.Data(200, "application/json; charset=utf-8",
		[]byte(`{"code":0,"msg":"`+msg+`","data":`+string(data)+`}`))
}

// RefreshScoreboard 评审团手动触发一次刷新（围栏保证并发安全）
func RefreshScoreboard(c *gin.Context) {
	snap, err := services.Scoreboard().Refresh(sessionIDFromRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Scoreboard refreshed", snap)
}
