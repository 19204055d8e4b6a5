// file: dto/team.go
package dto

import "strings"

// CreateTeamReq 管理端创建队伍
type CreateTeamReq struct {
	TeamName  string `json:"team_name"`
	Category  string `json:"category"` // school / friends / family
	SessionID uint32 `json:"session_id"`

	TeamNameCamel  string `json:"teamName"`
	SessionIDCamel uint32 `json:"sessionId"`
}

func (r *CreateTeamReq) Normalize() {
	if r.TeamName == "" && r.TeamNameCamel != "" {
		r.TeamName = r.TeamNameCamel
	}
	if r.SessionID == 0 && r.SessionIDCamel != 0 {
		r.SessionID = r.SessionIDCamel
	}
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if r.Category == "" {
		r.Category = "school"
	}
	if r.SessionID == 0 {
		r.SessionID = 1
	}
}

// TeamLoginReq 队伍设备登录
type TeamLoginReq struct {
	TeamID     uint32 `json:"team_id"`
	AccessCode string `json:"access_code"`

	TeamIDCamel     uint32 `json:"teamId"`
	AccessCodeCamel string `json:"accessCode"`
}

func (r *TeamLoginReq) Normalize() {
	if r.TeamID == 0 && r.TeamIDCamel != 0 {
		r.TeamID = r.TeamIDCamel
	}
	if r.AccessCode == "" && r.AccessCodeCamel != "" {
		r.AccessCode = r.AccessCodeCamel
	}
	r.AccessCode = strings.TrimSpace(r.AccessCode)
}

// UserLoginReq 评审员/评审团登录
type UserLoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
