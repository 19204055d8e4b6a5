// file: models/assignment_status.go
package models

import (
	"time"
)

// AssignmentStatusValue 任务完成状态机的取值
type AssignmentStatusValue string

// CompletionMethod 完成途径（未完成时为空）
type CompletionMethod string

const (
	StatusNotStarted    AssignmentStatusValue = "not_started"
	StatusSubmitted     AssignmentStatusValue = "submitted"
	StatusApproved      AssignmentStatusValue = "approved"
	StatusCompletedJury AssignmentStatusValue = "completed_jury"
	StatusRejected      AssignmentStatusValue = "rejected"

	MethodJury       CompletionMethod = "jury"
	MethodReview     CompletionMethod = "review"
	MethodCreativity CompletionMethod = "creativity"
)

// AssignmentStatus 对应 c88_assignment_status 表，完成状态的唯一事实来源。
// (team_id, assignment_number, session_id) 上的联合唯一索引就是并发控制手段：
// 所有写入方都走 upsert-on-conflict，同键竞争收敛为 last-writer-wins，绝不产生重复行。
// 记录在首次写入时惰性创建，除比赛重置外从不硬删除。
type AssignmentStatus struct {
	ID               uint64                `gorm:"primarykey" json:"id"`
	TeamID           uint32                `gorm:"not null;uniqueIndex:uq_status_key,priority:1" json:"team_id"`
	AssignmentNumber uint16                `gorm:"not null;uniqueIndex:uq_status_key,priority:2" json:"assignment_number"`
	SessionID        uint32                `gorm:"not null;uniqueIndex:uq_status_key,priority:3" json:"session_id"`
	Status           AssignmentStatusValue `gorm:"size:20;not null;default:'not_started'" json:"status"`
	PointsAwarded    uint                  `gorm:"not null;default:0" json:"points_awarded"`
	CompletionMethod CompletionMethod      `gorm:"size:20" json:"completion_method,omitempty"`
	SubmissionID     *uint64               `json:"submission_id,omitempty"`
	ScoreID          *uint64               `json:"score_id,omitempty"` // 反向引用，不代表所有权
	Notes            string                `gorm:"type:text" json:"notes,omitempty"`
	CompletedBy      string                `gorm:"size:50" json:"completed_by,omitempty"`
	CompletedAt      *time.Time            `json:"completed_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func (AssignmentStatus) TableName() string {
	return "c88_assignment_status"
}

// IsCompleted 是否处于计分完成态
func (s *AssignmentStatus) IsCompleted() bool {
	return s.Status == StatusApproved || s.Status == StatusCompletedJury
}

// CompletedStatusValue 判断某个状态值是否为计分完成态
func CompletedStatusValue(v AssignmentStatusValue) bool {
	return v == StatusApproved || v == StatusCompletedJury
}
