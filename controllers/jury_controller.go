// file: controllers/jury_controller.go
package controllers

import (
	"crazy88/dto"
	"crazy88/models"
	"crazy88/services"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
)

// JuryAward 评审团直接授分，绕过提交环节
func JuryAward(c *gin.Context) {
	var req dto.JuryAwardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if req.TeamID == 0 || req.AssignmentNumber == 0 {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}

	juror, _ := c.Get("username")
	points, err := services.AwardViaJury(req.TeamID, req.AssignmentNumber, sessionIDFromRequest(c),
		models.MethodJury, req.CustomPoints, juror.(string), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Points awarded", gin.H{"points_awarded": points})
}

// JuryCreativityAward 创意加分：固定 5 分，不受双倍积分影响，
// 且绝不允许加给已计分的任务
func JuryCreativityAward(c *gin.Context) {
	var req dto.JuryAwardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if req.TeamID == 0 || req.AssignmentNumber == 0 {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}

	juror, _ := c.Get("username")
	points, err := services.AwardViaJury(req.TeamID, req.AssignmentNumber, sessionIDFromRequest(c),
		models.MethodCreativity, nil, juror.(string), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Creativity points awarded", gin.H{"points_awarded": points})
}

// ResyncScores 手动触发得分投影的幂等修复扫描
func ResyncScores(c *gin.Context) {
	result, err := services.ResyncApproved(sessionIDFromRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Resync completed", result)
}
