// file: dto/assignment.go
package dto

import "strings"

// UpsertAssignmentReq 管理端创建/修改任务目录条目
type UpsertAssignmentReq struct {
	Number      uint16 `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BasePoints  uint   `json:"base_points"`
	MediaKinds  string `json:"media_kinds"` // 逗号分隔：photo,video,audio
	Active      *bool  `json:"active"`

	BasePointsCamel uint   `json:"basePoints"`
	MediaKindsCamel string `json:"mediaKinds"`
}

func (r *UpsertAssignmentReq) Normalize() {
	if r.BasePoints == 0 && r.BasePointsCamel != 0 {
		r.BasePoints = r.BasePointsCamel
	}
	if r.MediaKinds == "" && r.MediaKindsCamel != "" {
		r.MediaKinds = r.MediaKindsCamel
	}
	r.Title = strings.TrimSpace(r.Title)
	r.MediaKinds = strings.ToLower(strings.ReplaceAll(r.MediaKinds, " ", ""))
	if r.MediaKinds == "" {
		r.MediaKinds = "photo"
	}
	if r.BasePoints == 0 {
		r.BasePoints = 1
	}
}
