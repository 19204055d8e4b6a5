// file: controllers/submission_controller.go
package controllers

import (
	"io"

	"crazy88/database"
	"crazy88/dto"
	"crazy88/models"
	"crazy88/services"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
)

// evidenceStore 进程级对象存储客户端，main 初始化
var evidenceStore *services.ObjectStore

// InitEvidenceStore 注入对象存储客户端
func InitEvidenceStore(store *services.ObjectStore) {
	evidenceStore = store
}

// SubmitEvidence 队伍上传证据并提交任务。
// 门禁（大小/类型/阶段/重复）全部先于上传检查，重试耗尽不留半成品。
func SubmitEvidence(c *gin.Context) {
	number, ok := assignmentNumberParam(c)
	if !ok {
		return
	}

	teamIDAny, exists := c.Get("team_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}
	teamID := teamIDAny.(uint32)
	if teamID == 0 {
		utils.Error(c, 4003, "仅队伍 Token 可以提交")
		return
	}
	sessionID := sessionIDFromRequest(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 1001, "获取文件失败")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 5000, "打开文件失败")
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		utils.Error(c, 5000, "读取文件失败")
		return
	}

	evidence := &services.EvidenceFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	}

	sub, err := services.UploadEvidence(c.Request.Context(), evidenceStore,
		teamID, number, sessionID, evidence)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "提交成功，等待评审", gin.H{
		"submission_id": sub.ID,
		"evidence_url":  sub.EvidenceURL,
		"status":        sub.Status,
	})
}

// ListReviewQueue 评审员的待审队列
func ListReviewQueue(c *gin.Context) {
	sessionID := sessionIDFromRequest(c)

	var pending []models.Submission
	err := database.DB.
		Where("session_id = ? AND status IN ?", sessionID,
			[]models.SubmissionStatus{models.SubmissionPending, models.SubmissionNeedsReview}).
		Order("submitted_at asc").
		Find(&pending).Error
	if err != nil {
		utils.Error(c, 5000, "查询待审队列失败")
		return
	}

	utils.Success(c, "success", gin.H{
		"total":       len(pending),
		"submissions": pending,
	})
}

// ApproveSubmission 评审员通过提交
func ApproveSubmission(c *gin.Context) {
	number, ok := assignmentNumberParam(c)
	if !ok {
		return
	}

	var req dto.ReviewDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if req.TeamID == 0 {
		utils.Error(c, 1001, "缺少 team_id")
		return
	}

	reviewer, _ := c.Get("username")
	points, err := services.ApproveViaReview(req.TeamID, number, sessionIDFromRequest(c),
		req.CustomPoints, reviewer.(string), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Submission approved", gin.H{"points_awarded": points})
}

// RejectSubmission 评审员驳回提交；驳回后队伍可以重新提交
func RejectSubmission(c *gin.Context) {
	number, ok := assignmentNumberParam(c)
	if !ok {
		return
	}

	var req dto.ReviewDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if req.TeamID == 0 {
		utils.Error(c, 1001, "缺少 team_id")
		return
	}

	reviewer, _ := c.Get("username")
	err := services.RejectAssignment(req.TeamID, number, sessionIDFromRequest(c),
		reviewer.(string), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Submission rejected", nil)
}
