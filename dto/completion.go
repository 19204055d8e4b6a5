// file: dto/completion.go
package dto

import "strings"

// ========== 请求 DTO ==========

// ReviewDecisionReq 评审员通过/驳回提交
type ReviewDecisionReq struct {
	// 规范字段（snake_case）
	TeamID       uint32 `json:"team_id"`
	CustomPoints *uint  `json:"custom_points"` // 为空时按 基础分×双倍系数 计算
	Notes        string `json:"notes"`

	// 仅用于兼容旧客户端（camelCase），别名与上面 tag 不重复
	TeamIDCamel       uint32 `json:"teamId"`
	CustomPointsCamel *uint  `json:"customPoints"`
}

func (r *ReviewDecisionReq) Normalize() {
	if r.TeamID == 0 && r.TeamIDCamel != 0 {
		r.TeamID = r.TeamIDCamel
	}
	if r.CustomPoints == nil && r.CustomPointsCamel != nil {
		r.CustomPoints = r.CustomPointsCamel
	}
	r.Notes = strings.TrimSpace(r.Notes)
}

// JuryAwardReq 评审团直接授分
type JuryAwardReq struct {
	TeamID           uint32 `json:"team_id"`
	AssignmentNumber uint16 `json:"assignment_number"`
	CustomPoints     *uint  `json:"custom_points"`
	Notes            string `json:"notes"`

	TeamIDCamel           uint32 `json:"teamId"`
	AssignmentNumberCamel uint16 `json:"assignmentNumber"`
	CustomPointsCamel     *uint  `json:"customPoints"`
}

func (r *JuryAwardReq) Normalize() {
	if r.TeamID == 0 && r.TeamIDCamel != 0 {
		r.TeamID = r.TeamIDCamel
	}
	if r.AssignmentNumber == 0 && r.AssignmentNumberCamel != 0 {
		r.AssignmentNumber = r.AssignmentNumberCamel
	}
	if r.CustomPoints == nil && r.CustomPointsCamel != nil {
		r.CustomPoints = r.CustomPointsCamel
	}
	r.Notes = strings.TrimSpace(r.Notes)
}

// ========== 响应 DTO ==========

// AssignmentStatusView 状态账本组装出的统一投影，调用方不再各自拼接原始行
type AssignmentStatusView struct {
	AssignmentNumber uint16          `json:"assignment_number"`
	Status           string          `json:"status"`
	Points           uint            `json:"points"`
	Method           string          `json:"method,omitempty"`
	CompletedBy      string          `json:"completed_by,omitempty"`
	CompletedAt      string          `json:"completed_at,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Submission       *SubmissionMini `json:"submission,omitempty"`
	ScoreID          *uint64         `json:"score_id,omitempty"`
}

// SubmissionMini 状态投影里内嵌的提交摘要
type SubmissionMini struct {
	ID           uint64 `json:"id"`
	Status       string `json:"status"`
	EvidenceURL  string `json:"evidence_url"`
	EvidenceType string `json:"evidence_type"`
	SubmittedAt  string `json:"submitted_at"`
}
