// file: services/completion_service.go
package services

import (
	"errors"
	"time"

	"crazy88/database"
	"crazy88/logging"
	"crazy88/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreativityPoints 评审团"创意加分"固定分值，不受双倍积分影响
const CreativityPoints uint = 5

var (
	ErrCompletionClosed   = errors.New("当前阶段不接受完成操作")
	ErrAlreadyCompleted   = errors.New("该任务已完成计分，不能重复授分")
	ErrAssignmentNotFound = errors.New("任务不存在")
	ErrAssignmentInactive = errors.New("任务未启用")
)

// gateOpen 原子检查阶段闸门：只有 running/paused/grace 放行。
// 闸门是建议性的（不是分布式锁），授分与阶段切换的极端竞争按可接受处理。
func gateOpen(sessionID uint32) (*models.GameSession, error) {
	s, err := GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !CompletionAllowed(s, time.Now()) {
		return nil, ErrCompletionClosed
	}
	return s, nil
}

func getAssignmentByNumber(number uint16) (*models.Assignment, error) {
	var a models.Assignment
	if err := database.DB.Where("number = ?", number).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if !a.Active {
		return nil, ErrAssignmentInactive
	}
	return &a, nil
}

// finalPoints 计算最终授分：自定义覆盖优先，否则基础分乘双倍系数
func finalPoints(a *models.Assignment, s *models.GameSession, override *uint) uint {
	if override != nil {
		return *override
	}
	if s.DoublePointsActive {
		return a.BasePoints * 2
	}
	return a.BasePoints
}

// 得分表冲突时覆盖这些列：重新提交再通过必须覆盖旧行而不是追加
var scoreUpdateColumns = []string{"points", "created_via", "updated_at"}

// upsertScore 写得分投影并返回落库后的真实行（冲突更新时 Create 拿不到原行 ID）
func upsertScore(teamID uint32, number uint16, sessionID uint32, points uint, via models.ScoreOrigin) (*models.Score, error) {
	rec := models.Score{
		TeamID:           teamID,
		AssignmentNumber: number,
		SessionID:        sessionID,
		Points:           points,
		CreatedVia:       via,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "team_id"}, {Name: "assignment_number"}, {Name: "session_id"},
		},
		DoUpdates: clause.AssignmentColumns(scoreUpdateColumns),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}

	var saved models.Score
	err = database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", teamID, number, sessionID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// deleteScore 删除某键的得分投影
func deleteScore(teamID uint32, number uint16, sessionID uint32) error {
	return database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", teamID, number, sessionID).
		Delete(&models.Score{}).Error
}

// findSubmission 读取该键的提交行，用于保留反向引用
func findSubmission(teamID uint32, number uint16, sessionID uint32) *models.Submission {
	var sub models.Submission
	err := database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", teamID, number, sessionID).
		First(&sub).Error
	if err != nil {
		return nil
	}
	return &sub
}

// markSubmissionReviewed 回写提交行的审核结果。卫星写入，失败只记日志
func markSubmissionReviewed(teamID uint32, number uint16, sessionID uint32,
	status models.SubmissionStatus, points uint, notes string) {

	now := time.Now()
	err := database.DB.Model(&models.Submission{}).
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", teamID, number, sessionID).
		Updates(map[string]interface{}{
			"status":         status,
			"points_awarded": points,
			"reviewed_at":    now,
			"jury_notes":     notes,
		}).Error
	if err != nil {
		logging.Log.Warnf("submission row update failed (team=%d assignment=%d): %v", teamID, number, err)
	}
}

// SubmitAssignment 队伍提交任务证据。前置：该键尚未处于完成态；rejected 后允许重新提交。
// 只写状态账本，不写得分表。
func SubmitAssignment(teamID uint32, number uint16, sessionID uint32, submissionID uint64) error {
	if _, err := gateOpen(sessionID); err != nil {
		return err
	}
	if _, err := getAssignmentByNumber(number); err != nil {
		return err
	}

	cur, err := GetStatus(teamID, number, sessionID)
	if err != nil {
		return err
	}
	if cur != nil && cur.IsCompleted() {
		return ErrAlreadyCompleted
	}

	return UpsertStatus(teamID, number, sessionID,
		models.StatusSubmitted, 0, models.MethodReview,
		UpsertStatusOptions{SubmissionID: &submissionID})
}

// ApproveViaReview 评审员通过一份提交。
// 两步：先 upsert 得分投影（失败不阻断，记日志留给 ResyncApproved 修复），
// 再 upsert 状态账本为 approved（失败即整个操作失败——状态账本才是事实记录）。
func ApproveViaReview(teamID uint32, number uint16, sessionID uint32,
	override *uint, reviewer string, notes string) (uint, error) {

	session, err := gateOpen(sessionID)
	if err != nil {
		return 0, err
	}
	assignment, err := getAssignmentByNumber(number)
	if err != nil {
		return 0, err
	}

	points := finalPoints(assignment, session, override)

	var scoreID *uint64
	if sc, err := upsertScore(teamID, number, sessionID, points, models.ScoreViaReview); err != nil {
		logging.Log.Warnf("score write failed during approval (team=%d assignment=%d), resync will repair: %v",
			teamID, number, err)
	} else {
		scoreID = &sc.ID
	}

	opts := UpsertStatusOptions{ScoreID: scoreID, CompletedBy: reviewer, Notes: notes}
	if sub := findSubmission(teamID, number, sessionID); sub != nil {
		opts.SubmissionID = &sub.ID
	}

	if err := UpsertStatus(teamID, number, sessionID,
		models.StatusApproved, points, models.MethodReview, opts); err != nil {
		return 0, err
	}

	markSubmissionReviewed(teamID, number, sessionID, models.SubmissionApproved, points, notes)
	NudgeScoreboard(sessionID)
	return points, nil
}

// AwardViaJury 评审团直接授分（含创意加分变体），无需提交。
// 前置严格：该键已处于完成态时一律拒绝——绝不对已计分任务重复授分。
func AwardViaJury(teamID uint32, number uint16, sessionID uint32,
	method models.CompletionMethod, override *uint, juror string, notes string) (uint, error) {

	session, err := gateOpen(sessionID)
	if err != nil {
		return 0, err
	}
	assignment, err := getAssignmentByNumber(number)
	if err != nil {
		return 0, err
	}

	cur, err := GetStatus(teamID, number, sessionID)
	if err != nil {
		return 0, err
	}
	if cur != nil && cur.IsCompleted() {
		return 0, ErrAlreadyCompleted
	}

	var points uint
	var via models.ScoreOrigin
	if method == models.MethodCreativity {
		points = CreativityPoints
		via = models.ScoreViaCreativity
	} else {
		method = models.MethodJury
		points = finalPoints(assignment, session, override)
		via = models.ScoreViaJury
	}

	var scoreID *uint64
	if sc, err := upsertScore(teamID, number, sessionID, points, via); err != nil {
		logging.Log.Warnf("score write failed during jury award (team=%d assignment=%d), resync will repair: %v",
			teamID, number, err)
	} else {
		scoreID = &sc.ID
	}

	if err := UpsertStatus(teamID, number, sessionID,
		models.StatusCompletedJury, points, method,
		UpsertStatusOptions{ScoreID: scoreID, CompletedBy: juror, Notes: notes}); err != nil {
		return 0, err
	}

	NudgeScoreboard(sessionID)
	return points, nil
}

// RejectAssignment 驳回提交：先删得分投影（失败则中止，避免出现"已驳回却仍计分"），
// 再 upsert 状态为 rejected、0 分。驳回后允许重新提交。
func RejectAssignment(teamID uint32, number uint16, sessionID uint32, reviewer string, notes string) error {
	if _, err := gateOpen(sessionID); err != nil {
		return err
	}

	if err := deleteScore(teamID, number, sessionID); err != nil {
		return err
	}

	opts := UpsertStatusOptions{CompletedBy: reviewer, Notes: notes}
	if sub := findSubmission(teamID, number, sessionID); sub != nil {
		opts.SubmissionID = &sub.ID
	}
	if err := UpsertStatus(teamID, number, sessionID,
		models.StatusRejected, 0, models.MethodReview, opts); err != nil {
		return err
	}

	markSubmissionReviewed(teamID, number, sessionID, models.SubmissionRejected, 0, notes)
	NudgeScoreboard(sessionID)
	return nil
}

// ResyncResult 修复扫描结果
type ResyncResult struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
}

// ResyncApproved 幂等修复扫描：为每条 approved 状态重放得分写入（created_via=sync），
// 已一致的跳过。可重复执行，也可与在线写入方并发——upsert 的 last-writer-wins 语义保证安全。
func ResyncApproved(sessionID uint32) (ResyncResult, error) {
	var result ResyncResult

	var statuses []models.AssignmentStatus
	err := database.DB.
		Where("session_id = ? AND status = ?", sessionID, models.StatusApproved).
		Find(&statuses).Error
	if err != nil {
		return result, err
	}

	for i := range statuses {
		st := &statuses[i]
		result.Checked++

		var score models.Score
		err := database.DB.
			Where("team_id = ? AND assignment_number = ? AND session_id = ?",
				st.TeamID, st.AssignmentNumber, st.SessionID).
			First(&score).Error
		if err == nil && score.Points == st.PointsAwarded {
			continue
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Log.Warnf("resync read failed (team=%d assignment=%d): %v", st.TeamID, st.AssignmentNumber, err)
			continue
		}

		if _, err := upsertScore(st.TeamID, st.AssignmentNumber, st.SessionID,
			st.PointsAwarded, models.ScoreViaSync); err != nil {
			logging.Log.Warnf("resync write failed (team=%d assignment=%d): %v", st.TeamID, st.AssignmentNumber, err)
			continue
		}
		result.Repaired++
	}

	if result.Repaired > 0 {
		logging.Log.Infof("resync repaired %d/%d score rows for session %d",
			result.Repaired, result.Checked, sessionID)
		NudgeScoreboard(sessionID)
	}
	return result, nil
}
