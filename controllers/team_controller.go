// file: controllers/team_controller.go
package controllers

import (
	"strconv"

	"crazy88/database"
	"crazy88/dto"
	"crazy88/models"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTeam 管理端创建队伍，明文口令只在这次响应里返回一次
func CreateTeam(c *gin.Context) {
	var req dto.CreateTeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	if req.TeamName == "" {
		utils.Error(c, 1001, "缺少队伍名")
		return
	}
	switch models.TeamCategory(req.Category) {
	case models.CategorySchool, models.CategoryFriends, models.CategoryFamily:
	default:
		utils.Error(c, 1001, "category 取值无效（school/friends/family）")
		return
	}

	code := utils.GenerateAccessCode(8)
	team := models.Team{
		TeamName:   req.TeamName,
		Category:   models.TeamCategory(req.Category),
		SessionID:  req.SessionID,
		AccessCode: code,
	}
	if err := database.DB.Create(&team).Error; err != nil {
		utils.Error(c, 5000, "创建队伍失败: "+err.Error())
		return
	}

	utils.Success(c, "Team created successfully", gin.H{
		"id":          team.ID,
		"team_name":   team.TeamName,
		"category":    team.Category,
		"session_id":  team.SessionID,
		"access_code": code,
	})
}

// ListTeams 查询某场比赛的全部队伍
func ListTeams(c *gin.Context) {
	sessionID := sessionIDFromRequest(c)

	var teams []models.Team
	if err := database.DB.Where("session_id = ?", sessionID).Order("team_name asc").Find(&teams).Error; err != nil {
		utils.Error(c, 5000, "查询队伍失败")
		return
	}
	utils.Success(c, "success", teams)
}

// ResetAccessCode 重置队伍口令
func ResetAccessCode(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		utils.Error(c, 4004, "队伍不存在")
		return
	}

	code := utils.GenerateAccessCode(8)
	team.AccessCode = code
	if err := database.DB.Save(&team).Error; err != nil {
		utils.Error(c, 5000, "重置口令失败")
		return
	}
	utils.Success(c, "Access code reset", gin.H{"access_code": code})
}

// DeleteTeam 删除队伍并级联清理其状态、得分与提交记录
func DeleteTeam(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.AssignmentStatus{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Score{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, teamID).Error
	})
	if err != nil {
		utils.Error(c, 5000, "删除队伍失败: "+err.Error())
		return
	}
	utils.Success(c, "Team deleted successfully", nil)
}
