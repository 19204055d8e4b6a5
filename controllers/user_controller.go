// file: controllers/user_controller.go
package controllers

import (
	"crazy88/database"
	"crazy88/dto"
	"crazy88/models"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
)

// Login 评审员/评审团账号登录
func Login(c *gin.Context) {
	var req dto.UserLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(c, 4001, "用户名或密码错误")
		return
	}
	if user.Status == models.StatusBanned {
		utils.Error(c, 4003, "账号已被禁用")
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Error(c, 4001, "用户名或密码错误")
		return
	}

	token, err := utils.GenerateUserToken(user)
	if err != nil {
		utils.Error(c, 5000, "签发 Token 失败")
		return
	}

	utils.Success(c, "success", gin.H{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	})
}

// TeamLogin 队伍设备用 队伍ID+口令 登录
func TeamLogin(c *gin.Context) {
	var req dto.TeamLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	var team models.Team
	if err := database.DB.First(&team, req.TeamID).Error; err != nil {
		utils.Error(c, 4001, "队伍不存在或口令错误")
		return
	}
	if !team.CheckAccessCode(req.AccessCode) {
		utils.Error(c, 4001, "队伍不存在或口令错误")
		return
	}

	token, err := utils.GenerateTeamToken(team)
	if err != nil {
		utils.Error(c, 5000, "签发 Token 失败")
		return
	}

	utils.Success(c, "success", gin.H{
		"token":      token,
		"team_id":    team.ID,
		"team_name":  team.TeamName,
		"session_id": team.SessionID,
	})
}
