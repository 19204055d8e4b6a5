// file: controllers/clock_controller.go
package controllers

import (
	"strconv"
	"time"

	"crazy88/dto"
	"crazy88/services"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
)

// sessionIDFromRequest 确定操作的比赛：队伍 Token 自带，其余取 query，缺省为 1
func sessionIDFromRequest(c *gin.Context) uint32 {
	if v, ok := c.Get("session_id"); ok {
		if id, ok := v.(uint32); ok && id != 0 {
			return id
		}
	}
	if q := c.Query("session_id"); q != "" {
		if id, err := strconv.Atoi(q); err == nil && id > 0 {
			return uint32(id)
		}
	}
	return 1
}

// GetClockStatus 公开的计时器状态：阶段纯派生，每次读取重新计算
func GetClockStatus(c *gin.Context) {
	sessionID := sessionIDFromRequest(c)

	session, err := services.GetSession(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	utils.Success(c, "success", dto.ClockStatusResp{
		Phase:              string(services.DerivePhase(session, now)),
		Duration:           session.Duration,
		RemainingSeconds:   services.RemainingSeconds(session, now),
		IsRunning:          session.IsRunning,
		DoublePointsActive: session.DoublePointsActive,
		Announcement:       session.Announcement,
	})
}

// SetClockDuration 设置时长（仅未运行时）
func SetClockDuration(c *gin.Context) {
	var req dto.SetDurationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if err := services.SetDuration(sessionIDFromRequest(c), req.Seconds); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Duration updated", nil)
}

// StartClock 启动计时
func StartClock(c *gin.Context) {
	if err := services.StartClock(sessionIDFromRequest(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Clock started", nil)
}

// PauseClock 暂停计时
func PauseClock(c *gin.Context) {
	if err := services.PauseClock(sessionIDFromRequest(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Clock paused", nil)
}

// ResumeClock 恢复计时
func ResumeClock(c *gin.Context) {
	if err := services.ResumeClock(sessionIDFromRequest(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Clock resumed", nil)
}

// StopClock 硬复位
func StopClock(c *gin.Context) {
	if err := services.StopClock(sessionIDFromRequest(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Clock stopped", nil)
}

// SetDoublePoints 切换双倍积分
func SetDoublePoints(c *gin.Context) {
	var req dto.SetDoublePointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if err := services.SetDoublePoints(sessionIDFromRequest(c), *req.Active); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Double points updated", nil)
}

// SetAnnouncement 更新公告
func SetAnnouncement(c *gin.Context) {
	var req dto.SetAnnouncementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if err := services.SetAnnouncement(sessionIDFromRequest(c), req.Text); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Announcement updated", nil)
}
