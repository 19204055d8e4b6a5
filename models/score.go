// file: models/score.go
package models

import (
	"time"
)

// ScoreOrigin 得分记录的写入来源
type ScoreOrigin string

const (
	ScoreViaJury       ScoreOrigin = "jury"
	ScoreViaCreativity ScoreOrigin = "creativity"
	ScoreViaReview     ScoreOrigin = "review"
	ScoreViaSync       ScoreOrigin = "sync"
)

// Score 对应 c88_score 表，实际授予积分的精简投影。
// 它不是独立事实：当且仅当对应的 AssignmentStatus 处于完成态时存在，
// points 恒等于该记录的 points_awarded。记分板聚合只读这张表。
// 漂移由 ResyncApproved 修复，一个同步周期内必须收敛。
type Score struct {
	ID               uint64      `gorm:"primarykey" json:"id"`
	TeamID           uint32      `gorm:"not null;uniqueIndex:uq_score_key,priority:1" json:"team_id"`
	AssignmentNumber uint16      `gorm:"not null;uniqueIndex:uq_score_key,priority:2" json:"assignment_number"`
	SessionID        uint32      `gorm:"not null;uniqueIndex:uq_score_key,priority:3" json:"session_id"`
	Points           uint        `gorm:"not null" json:"points"`
	CreatedVia       ScoreOrigin `gorm:"size:20;not null" json:"created_via"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (Score) TableName() string {
	return "c88_score"
}
