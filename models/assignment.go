// file: models/assignment.go
package models

import (
	"strings"
	"time"
)

// MediaKind 任务要求的证据媒体类型
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// Assignment 对应 c88_assignment 表，任务目录（本次部署为 1..88 号）。
// 读多写少，只由管理端编辑。
type Assignment struct {
	ID          uint32    `gorm:"primarykey" json:"id"`
	Number      uint16    `gorm:"unique;not null" json:"number"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	BasePoints  uint      `gorm:"not null;default:1" json:"base_points"`
	MediaKinds  string    `gorm:"size:50;not null;default:'photo'" json:"media_kinds"` // 逗号分隔：photo,video,audio
	Active      bool      `gorm:"default:1" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Assignment) TableName() string {
	return "c88_assignment"
}

// AllowsMedia 判断任务是否接受该媒体类型的证据
func (a *Assignment) AllowsMedia(kind MediaKind) bool {
	for _, k := range strings.Split(a.MediaKinds, ",") {
		if MediaKind(strings.TrimSpace(k)) == kind {
			return true
		}
	}
	return false
}
