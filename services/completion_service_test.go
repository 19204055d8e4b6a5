// file: services/completion_service_test.go
package services

import (
	"testing"
	"time"

	"crazy88/database"
	"crazy88/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getScore(t *testing.T, teamID uint32, number uint16, sessionID uint32) *models.Score {
	t.Helper()
	var sc models.Score
	err := database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", teamID, number, sessionID).
		First(&sc).Error
	if err != nil {
		return nil
	}
	return &sc
}

func TestSubmitThenApprove(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 21, false)
	seedAssignment(t, 10, 3, "photo")

	require.NoError(t, SubmitAssignment(4, 10, 21, 77))

	rec, err := GetStatus(4, 10, 21)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.StatusSubmitted, rec.Status)
	assert.Equal(t, uint(0), rec.PointsAwarded)
	// 提交阶段绝不写得分表
	assert.Nil(t, getScore(t, 4, 10, 21))

	points, err := ApproveViaReview(4, 10, 21, nil, "an", "")
	require.NoError(t, err)
	assert.Equal(t, uint(3), points)

	rec, err = GetStatus(4, 10, 21)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, rec.Status)
	assert.Equal(t, uint(3), rec.PointsAwarded)
	assert.NotNil(t, rec.CompletedAt)

	sc := getScore(t, 4, 10, 21)
	require.NotNil(t, sc)
	assert.Equal(t, uint(3), sc.Points)
	assert.Equal(t, models.ScoreViaReview, sc.CreatedVia)
}

func TestApproveDoublePoints(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 22, true)
	seedAssignment(t, 11, 1, "photo")

	points, err := ApproveViaReview(4, 11, 22, nil, "an", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), points)
}

func TestApproveCustomOverrideBeatsDouble(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 23, true)
	seedAssignment(t, 12, 1, "photo")

	override := uint(7)
	points, err := ApproveViaReview(4, 12, 23, &override, "an", "")
	require.NoError(t, err)
	assert.Equal(t, uint(7), points)
}

func TestJuryAwardNoDoublePay(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 24, false)
	seedAssignment(t, 13, 2, "photo")

	points, err := AwardViaJury(5, 13, 24, models.MethodJury, nil, "jos", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), points)

	// 已计分任务不得重复授分，分数保持不变
	_, err = AwardViaJury(5, 13, 24, models.MethodJury, nil, "jos", "")
	require.ErrorIs(t, err, ErrAlreadyCompleted)
	_, err = AwardViaJury(5, 13, 24, models.MethodCreativity, nil, "jos", "")
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	rec, _ := GetStatus(5, 13, 24)
	assert.Equal(t, uint(2), rec.PointsAwarded)
	sc := getScore(t, 5, 13, 24)
	require.NotNil(t, sc)
	assert.Equal(t, uint(2), sc.Points)
	assert.Equal(t, int64(1), countRows(t, &models.Score{}))
}

func TestJuryAwardBlocksOverReviewApproval(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 25, false)
	seedAssignment(t, 14, 2, "photo")

	_, err := ApproveViaReview(5, 14, 25, nil, "an", "")
	require.NoError(t, err)

	// 评审路径已通过的任务，评审团也不允许覆盖授分
	_, err = AwardViaJury(5, 14, 25, models.MethodJury, nil, "jos", "")
	require.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCreativityAwardFixedPoints(t *testing.T) {
	setupTestDB(t)
	// 双倍积分也不影响创意加分
	seedRunningSession(t, 26, true)
	seedAssignment(t, 15, 2, "photo")

	points, err := AwardViaJury(6, 15, 26, models.MethodCreativity, nil, "jos", "mooi!")
	require.NoError(t, err)
	assert.Equal(t, CreativityPoints, points)

	rec, _ := GetStatus(6, 15, 26)
	assert.Equal(t, models.StatusCompletedJury, rec.Status)
	assert.Equal(t, models.MethodCreativity, rec.CompletionMethod)

	sc := getScore(t, 6, 15, 26)
	require.NotNil(t, sc)
	assert.Equal(t, models.ScoreViaCreativity, sc.CreatedVia)
}

func TestRejectClearsScore(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 27, false)
	seedAssignment(t, 16, 4, "photo")

	_, err := ApproveViaReview(7, 16, 27, nil, "an", "")
	require.NoError(t, err)
	require.NotNil(t, getScore(t, 7, 16, 27))

	require.NoError(t, RejectAssignment(7, 16, 27, "an", "onscherp"))

	// 驳回后该键不得再有得分行
	assert.Nil(t, getScore(t, 7, 16, 27))
	rec, _ := GetStatus(7, 16, 27)
	assert.Equal(t, models.StatusRejected, rec.Status)
	assert.Equal(t, uint(0), rec.PointsAwarded)
	assert.Nil(t, rec.CompletedAt)
}

func TestResubmitAfterReject(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 28, false)
	seedAssignment(t, 17, 1, "photo")

	require.NoError(t, SubmitAssignment(8, 17, 28, 1))
	require.NoError(t, RejectAssignment(8, 17, 28, "an", ""))

	// rejected → submitted 是合法迁移
	require.NoError(t, SubmitAssignment(8, 17, 28, 2))

	rec, _ := GetStatus(8, 17, 28)
	assert.Equal(t, models.StatusSubmitted, rec.Status)
	assert.Equal(t, int64(1), countRows(t, &models.AssignmentStatus{}))
}

func TestSubmitBlockedWhenCompleted(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 29, false)
	seedAssignment(t, 18, 1, "photo")

	_, err := AwardViaJury(9, 18, 29, models.MethodJury, nil, "jos", "")
	require.NoError(t, err)

	require.ErrorIs(t, SubmitAssignment(9, 18, 29, 3), ErrAlreadyCompleted)
}

func TestWritersRespectPhaseGate(t *testing.T) {
	setupTestDB(t)
	seedAssignment(t, 19, 1, "photo")

	// finished：超时远超宽限期
	start := time.Now().Add(-2 * time.Hour)
	s := models.GameSession{ID: 30, SessionName: "over", Duration: 600, StartTime: &start, IsRunning: true}
	require.NoError(t, database.DB.Create(&s).Error)

	require.ErrorIs(t, SubmitAssignment(10, 19, 30, 1), ErrCompletionClosed)
	_, err := ApproveViaReview(10, 19, 30, nil, "an", "")
	require.ErrorIs(t, err, ErrCompletionClosed)
	_, err = AwardViaJury(10, 19, 30, models.MethodJury, nil, "jos", "")
	require.ErrorIs(t, err, ErrCompletionClosed)
	require.ErrorIs(t, RejectAssignment(10, 19, 30, "an", ""), ErrCompletionClosed)

	// 失败的操作不得留下任何半成品状态
	assert.Equal(t, int64(0), countRows(t, &models.AssignmentStatus{}))
	assert.Equal(t, int64(0), countRows(t, &models.Score{}))
}

func TestGraceWindowStillAcceptsCompletions(t *testing.T) {
	setupTestDB(t)
	seedAssignment(t, 20, 1, "photo")

	start := time.Now().Add(-650 * time.Second)
	s := models.GameSession{ID: 31, SessionName: "grace", Duration: 600, StartTime: &start, IsRunning: true}
	require.NoError(t, database.DB.Create(&s).Error)

	_, err := AwardViaJury(11, 20, 31, models.MethodJury, nil, "jos", "")
	require.NoError(t, err)
}

func TestResyncRepairsAndIsIdempotent(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 32, false)
	seedAssignment(t, 21, 3, "photo")
	seedAssignment(t, 22, 2, "photo")

	_, err := ApproveViaReview(12, 21, 32, nil, "an", "")
	require.NoError(t, err)
	_, err = ApproveViaReview(12, 22, 32, nil, "an", "")
	require.NoError(t, err)
	// 评审团路径不在 approved 修复范围内
	_, err = AwardViaJury(13, 21, 32, models.MethodJury, nil, "jos", "")
	require.NoError(t, err)

	// 一致状态下全部跳过
	result, err := ResyncApproved(32)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 0, result.Repaired)

	// 人为制造漂移：删一行、改一行
	require.NoError(t, database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", 12, 21, 32).
		Delete(&models.Score{}).Error)
	require.NoError(t, database.DB.Model(&models.Score{}).
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", 12, 22, 32).
		Update("points", 99).Error)

	result, err = ResyncApproved(32)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Repaired)

	sc := getScore(t, 12, 21, 32)
	require.NotNil(t, sc)
	assert.Equal(t, uint(3), sc.Points)
	assert.Equal(t, models.ScoreViaSync, sc.CreatedVia)
	sc = getScore(t, 12, 22, 32)
	require.NotNil(t, sc)
	assert.Equal(t, uint(2), sc.Points)

	// 再跑一遍必须零改动、零重复行
	result, err = ResyncApproved(32)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Repaired)
	assert.Equal(t, int64(3), countRows(t, &models.Score{}))
}
