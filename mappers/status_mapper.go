// file: mappers/status_mapper.go
package mappers

import (
	"crazy88/dto"
	"crazy88/models"
)

const timeLayout = "2006-01-02 15:04:05"

// ToStatusView 把状态行（可带提交行）组装成统一投影
func ToStatusView(st *models.AssignmentStatus, sub *models.Submission) dto.AssignmentStatusView {
	view := dto.AssignmentStatusView{
		AssignmentNumber: st.AssignmentNumber,
		Status:           string(st.Status),
		Points:           st.PointsAwarded,
		Method:           string(st.CompletionMethod),
		CompletedBy:      st.CompletedBy,
		Notes:            st.Notes,
		ScoreID:          st.ScoreID,
	}
	if st.CompletedAt != nil {
		view.CompletedAt = st.CompletedAt.Format(timeLayout)
	}
	if sub != nil {
		view.Submission = ToSubmissionMini(sub)
	}
	return view
}

// ToSubmissionMini 提交行摘要
func ToSubmissionMini(sub *models.Submission) *dto.SubmissionMini {
	return &dto.SubmissionMini{
		ID:           sub.ID,
		Status:       string(sub.Status),
		EvidenceURL:  sub.EvidenceURL,
		EvidenceType: sub.EvidenceType,
		SubmittedAt:  sub.SubmittedAt.Format(timeLayout),
	}
}

// ToStatusViews 批量组装：按任务编号关联各自的提交行
func ToStatusViews(statuses []models.AssignmentStatus, submissions []models.Submission) []dto.AssignmentStatusView {
	byNumber := make(map[uint16]*models.Submission, len(submissions))
	for i := range submissions {
		byNumber[submissions[i].AssignmentNumber] = &submissions[i]
	}

	views := make([]dto.AssignmentStatusView, 0, len(statuses))
	for i := range statuses {
		views = append(views, ToStatusView(&statuses[i], byNumber[statuses[i].AssignmentNumber]))
	}
	return views
}

// NotStartedView 缺席记录的占位投影（缺席即 not_started）
func NotStartedView(number uint16) dto.AssignmentStatusView {
	return dto.AssignmentStatusView{
		AssignmentNumber: number,
		Status:           string(models.StatusNotStarted),
	}
}
