// file: controllers/assignment_controller.go
package controllers

import (
	"strconv"

	"crazy88/database"
	"crazy88/dto"
	"crazy88/mappers"
	"crazy88/models"
	"crazy88/services"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// UpsertAssignment 管理端创建/修改任务目录条目，按编号 upsert
func UpsertAssignment(c *gin.Context) {
	var req dto.UpsertAssignmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	if req.Number == 0 || req.Title == "" {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	assignment := models.Assignment{
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
		BasePoints:  req.BasePoints,
		MediaKinds:  req.MediaKinds,
		Active:      active,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "base_points", "media_kinds", "active", "updated_at"}),
	}).Create(&assignment).Error
	if err != nil {
		utils.Error(c, 5000, "保存任务失败: "+err.Error())
		return
	}
	utils.Success(c, "Assignment saved successfully", gin.H{"number": assignment.Number})
}

// ListAssignments 任务目录。队伍 Token 访问时附带本队每个任务的状态投影。
func ListAssignments(c *gin.Context) {
	var assignments []models.Assignment
	if err := database.DB.Where("active = ?", true).Order("number asc").Find(&assignments).Error; err != nil {
		utils.Error(c, 5000, "查询任务失败")
		return
	}

	teamIDAny, _ := c.Get("team_id")
	teamID, _ := teamIDAny.(uint32)
	if teamID == 0 {
		utils.Success(c, "success", gin.H{
			"total":       len(assignments),
			"assignments": assignments,
		})
		return
	}

	sessionID := sessionIDFromRequest(c)
	statuses, err := services.GetTeamStatuses(teamID, sessionID)
	if err != nil {
		utils.Error(c, 5000, "查询状态失败")
		return
	}
	var submissions []models.Submission
	database.DB.Where("team_id = ? AND session_id = ?", teamID, sessionID).Find(&submissions)

	views := mappers.ToStatusViews(statuses, submissions)
	byNumber := make(map[uint16]dto.AssignmentStatusView, len(views))
	for _, v := range views {
		byNumber[v.AssignmentNumber] = v
	}

	type assignmentWithStatus struct {
		models.Assignment
		TeamStatus dto.AssignmentStatusView `json:"team_status"`
	}
	items := make([]assignmentWithStatus, 0, len(assignments))
	for _, a := range assignments {
		view, ok := byNumber[a.Number]
		if !ok {
			view = mappers.NotStartedView(a.Number)
		}
		items = append(items, assignmentWithStatus{Assignment: a, TeamStatus: view})
	}

	utils.Success(c, "success", gin.H{
		"total":       len(items),
		"assignments": items,
	})
}

// GetTeamProgress 某队伍的进度汇总与状态明细
func GetTeamProgress(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))
	sessionID := sessionIDFromRequest(c)

	statuses, err := services.GetTeamStatuses(uint32(teamID), sessionID)
	if err != nil {
		utils.Error(c, 5000, "查询状态失败")
		return
	}
	summary, err := services.GetProgressSummary(uint32(teamID), sessionID)
	if err != nil {
		utils.Error(c, 5000, "查询进度失败")
		return
	}
	var submissions []models.Submission
	database.DB.Where("team_id = ? AND session_id = ?", teamID, sessionID).Find(&submissions)

	utils.Success(c, "success", gin.H{
		"summary":  summary,
		"statuses": mappers.ToStatusViews(statuses, submissions),
	})
}
