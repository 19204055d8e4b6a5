// file: dto/clock.go
package dto

import "strings"

// SetDurationReq 设置比赛时长
type SetDurationReq struct {
	Seconds int64 `json:"seconds" binding:"required,min=1"`
}

// SetDoublePointsReq 切换双倍积分
type SetDoublePointsReq struct {
	Active *bool `json:"active" binding:"required"`
}

// SetAnnouncementReq 更新公告
type SetAnnouncementReq struct {
	Text string `json:"text"`
}

func (r *SetAnnouncementReq) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

// ClockStatusResp 公开的计时器状态
type ClockStatusResp struct {
	Phase              string `json:"phase"`
	Duration           int64  `json:"duration"`
	RemainingSeconds   int64  `json:"remaining_seconds"`
	IsRunning          bool   `json:"is_running"`
	DoublePointsActive bool   `json:"double_points_active"`
	Announcement       string `json:"announcement,omitempty"`
}
