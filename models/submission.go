// file: models/submission.go
package models

import (
	"time"
)

// SubmissionStatus 队伍自主提交的审核状态
type SubmissionStatus string

const (
	SubmissionPending     SubmissionStatus = "pending"
	SubmissionApproved    SubmissionStatus = "approved"
	SubmissionRejected    SubmissionStatus = "rejected"
	SubmissionNeedsReview SubmissionStatus = "needs_review"
)

// Submission 对应 c88_submission 表。
// 同一 (team_id, assignment_number, session_id) 只保留一行：
// 重新提交时原地覆盖（upsert），而不是追加新行。
type Submission struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	TeamID           uint32           `gorm:"not null;uniqueIndex:uq_submission_key,priority:1" json:"team_id"`
	AssignmentNumber uint16           `gorm:"not null;uniqueIndex:uq_submission_key,priority:2" json:"assignment_number"`
	SessionID        uint32           `gorm:"not null;uniqueIndex:uq_submission_key,priority:3" json:"session_id"`
	Status           SubmissionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	PointsAwarded    uint             `gorm:"not null;default:0" json:"points_awarded"`
	EvidenceURL      string           `gorm:"size:2048" json:"evidence_url"`
	EvidenceType     string           `gorm:"size:100" json:"evidence_type"`
	EvidenceSize     uint64           `gorm:"default:0" json:"evidence_size"`
	SubmittedAt      time.Time        `json:"submitted_at"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty"`
	JuryNotes        string           `gorm:"type:text" json:"jury_notes,omitempty"`
}

func (Submission) TableName() string {
	return "c88_submission"
}
