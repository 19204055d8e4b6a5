// file: services/status_service.go
package services

import (
	"errors"
	"time"

	"crazy88/database"
	"crazy88/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertStatusOptions 状态写入的可选字段
type UpsertStatusOptions struct {
	SubmissionID *uint64
	ScoreID      *uint64
	Notes        string
	CompletedBy  string
}

// 冲突时整行覆盖这些列：语义是 last-writer-wins 的全量替换，不是合并
var statusUpdateColumns = []string{
	"status", "points_awarded", "completion_method",
	"submission_id", "score_id", "notes", "completed_by",
	"completed_at", "updated_at",
}

// UpsertStatus 状态账本唯一的写入原语。
// 对联合键幂等：相同键的重复调用整行替换，调用方永远提供完整目标状态，
// 不做读改写。completed_at 当且仅当新状态为完成态时重置为当前时间，否则清空。
func UpsertStatus(teamID uint32, assignmentNumber uint16, sessionID uint32,
	status models.AssignmentStatusValue, points uint, method models.CompletionMethod,
	opts UpsertStatusOptions) error {

	rec := models.AssignmentStatus{
		TeamID:           teamID,
		AssignmentNumber: assignmentNumber,
		SessionID:        sessionID,
		Status:           status,
		PointsAwarded:    points,
		CompletionMethod: method,
		SubmissionID:     opts.SubmissionID,
		ScoreID:          opts.ScoreID,
		Notes:            opts.Notes,
		CompletedBy:      opts.CompletedBy,
	}
	if models.CompletedStatusValue(status) {
		now := time.Now()
		rec.CompletedAt = &now
	}

	return database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "team_id"}, {Name: "assignment_number"}, {Name: "session_id"},
		},
		DoUpdates: clause.AssignmentColumns(statusUpdateColumns),
	}).Create(&rec).Error
}

// GetStatus 按联合键读取状态记录；不存在返回 (nil, nil)，缺席即 not_started
func GetStatus(teamID uint32, assignmentNumber uint16, sessionID uint32) (*models.AssignmentStatus, error) {
	var rec models.AssignmentStatus
	err := database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?",
			teamID, assignmentNumber, sessionID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetTeamStatuses 某队伍的全部状态记录，按任务编号排序
func GetTeamStatuses(teamID uint32, sessionID uint32) ([]models.AssignmentStatus, error) {
	var recs []models.AssignmentStatus
	err := database.DB.
		Where("team_id = ? AND session_id = ?", teamID, sessionID).
		Order("assignment_number asc").
		Find(&recs).Error
	return recs, err
}

// GetCompletedNumbers 某队伍已完成的任务编号
func GetCompletedNumbers(teamID uint32, sessionID uint32) ([]uint16, error) {
	recs, err := GetTeamStatuses(teamID, sessionID)
	if err != nil {
		return nil, err
	}
	var numbers []uint16
	for i := range recs {
		if recs[i].IsCompleted() {
			numbers = append(numbers, recs[i].AssignmentNumber)
		}
	}
	return numbers, nil
}

// ProgressSummary 队伍进度汇总
type ProgressSummary struct {
	Completed   int  `json:"completed"`
	Submitted   int  `json:"submitted"`
	Rejected    int  `json:"rejected"`
	TotalPoints uint `json:"total_points"`
}

// GetProgressSummary 对 GetTeamStatuses 的纯折叠
func GetProgressSummary(teamID uint32, sessionID uint32) (ProgressSummary, error) {
	var sum ProgressSummary
	recs, err := GetTeamStatuses(teamID, sessionID)
	if err != nil {
		return sum, err
	}
	for i := range recs {
		switch {
		case recs[i].IsCompleted():
			sum.Completed++
			sum.TotalPoints += recs[i].PointsAwarded
		case recs[i].Status == models.StatusSubmitted:
			sum.Submitted++
		case recs[i].Status == models.StatusRejected:
			sum.Rejected++
		}
	}
	return sum, nil
}
