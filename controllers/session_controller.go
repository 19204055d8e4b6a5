// file: controllers/session_controller.go
package controllers

import (
	"strconv"
	"strings"

	"crazy88/database"
	"crazy88/models"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateSession 创建新比赛
func CreateSession(c *gin.Context) {
	var req struct {
		SessionName string `json:"session_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	session := models.GameSession{SessionName: strings.TrimSpace(req.SessionName)}
	if err := database.DB.Create(&session).Error; err != nil {
		utils.Error(c, 5000, "创建比赛失败: "+err.Error())
		return
	}
	utils.Success(c, "Session created successfully", gin.H{"id": session.ID})
}

// ListSessions 查询全部比赛
func ListSessions(c *gin.Context) {
	var sessions []models.GameSession
	if err := database.DB.Order("id asc").Find(&sessions).Error; err != nil {
		utils.Error(c, 5000, "查询比赛失败")
		return
	}
	utils.Success(c, "success", sessions)
}

// ResetSession 比赛重置：清空该场的状态账本、得分投影与提交记录，计时器硬复位。
// 这是状态记录唯一允许被硬删除的场景。
func ResetSession(c *gin.Context) {
	sessionID, _ := strconv.Atoi(c.Param("id"))

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.AssignmentStatus{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Score{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.GameSession{}).Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"duration":             0,
				"start_time":           nil,
				"is_running":           false,
				"double_points_active": false,
				"announcement":         "",
			}).Error
	})
	if err != nil {
		utils.Error(c, 5000, "重置比赛失败: "+err.Error())
		return
	}
	utils.Success(c, "Session reset successfully", nil)
}
