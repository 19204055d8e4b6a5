// file: services/scoreboard_service_test.go
package services

import (
	"testing"
	"time"

	"crazy88/database"
	"crazy88/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator() *ScoreboardAggregator {
	return &ScoreboardAggregator{
		committedSeq: make(map[uint32]uint64),
		current:      make(map[uint32]*ScoreboardSnapshot),
	}
}

func TestRankStandingsDeterministicTiebreak(t *testing.T) {
	rows := []teamAggregate{
		{TeamID: 3, TeamName: "Zebra", Category: models.CategorySchool, TotalPoints: 10, AssignmentsCompleted: 4},
		{TeamID: 1, TeamName: "Appel", Category: models.CategoryFamily, TotalPoints: 10, AssignmentsCompleted: 4},
		{TeamID: 2, TeamName: "Mango", Category: models.CategoryFriends, TotalPoints: 10, AssignmentsCompleted: 5},
		{TeamID: 4, TeamName: "Bes", Category: models.CategorySchool, TotalPoints: 12, AssignmentsCompleted: 3},
	}

	first := rankStandings(rows)
	require.Len(t, first, 4)
	// 总分降序；平分先比完成数，再按队名字典序
	assert.Equal(t, "Bes", first[0].TeamName)
	assert.Equal(t, "Mango", first[1].TeamName)
	assert.Equal(t, "Appel", first[2].TeamName)
	assert.Equal(t, "Zebra", first[3].TeamName)
	for i, s := range first {
		assert.Equal(t, uint(i+1), s.Rank)
	}

	// 输入乱序重排后结果必须一致
	shuffled := []teamAggregate{rows[3], rows[0], rows[2], rows[1]}
	second := rankStandings(shuffled)
	assert.Equal(t, first, second)
}

func TestCommitDiscardsStaleRefresh(t *testing.T) {
	agg := newTestAggregator()

	seqOld := agg.beginRefresh()
	seqNew := agg.beginRefresh()

	fresh := &ScoreboardSnapshot{SessionID: 42, GeneratedAt: time.Now()}
	require.True(t, agg.commit(42, seqNew, fresh))

	// 先开始、后到达的刷新必须被围栏丢弃
	stale := &ScoreboardSnapshot{SessionID: 42, GeneratedAt: time.Now().Add(-time.Minute)}
	assert.False(t, agg.commit(42, seqOld, stale))
	assert.Same(t, fresh, agg.Current(42))
}

func TestCommitFencesPerSession(t *testing.T) {
	agg := newTestAggregator()

	seqA := agg.beginRefresh()
	seqB := agg.beginRefresh()

	// 不同场次互不围栏
	require.True(t, agg.commit(91, seqB, &ScoreboardSnapshot{SessionID: 91}))
	assert.True(t, agg.commit(92, seqA, &ScoreboardSnapshot{SessionID: 92}))
}

func TestBuildSnapshotAggregates(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 42, false)
	seedTeam(t, 1, 42, "Appel", models.CategorySchool)
	seedTeam(t, 2, 42, "Banaan", models.CategorySchool)
	seedTeam(t, 3, 42, "Citroen", models.CategoryFriends)
	seedAssignment(t, 1, 3, "photo")
	seedAssignment(t, 2, 2, "photo")
	seedAssignment(t, 3, 4, "video")

	_, err := ApproveViaReview(1, 1, 42, nil, "an", "")
	require.NoError(t, err)
	_, err = ApproveViaReview(1, 2, 42, nil, "an", "")
	require.NoError(t, err)
	_, err = ApproveViaReview(2, 1, 42, nil, "an", "")
	require.NoError(t, err)
	_, err = AwardViaJury(3, 2, 42, models.MethodCreativity, nil, "jos", "")
	require.NoError(t, err)

	snap, err := BuildSnapshot(42)
	require.NoError(t, err)
	require.Len(t, snap.Standings, 3)

	// Appel 5 分（3+2），Citroen 5 分创意，Banaan 3 分；
	// Appel/Citroen 平分但 Appel 完成数多
	assert.Equal(t, "Appel", snap.Standings[0].TeamName)
	assert.Equal(t, uint(5), snap.Standings[0].TotalPoints)
	assert.Equal(t, uint(2), snap.Standings[0].AssignmentsCompleted)
	assert.Equal(t, "Citroen", snap.Standings[1].TeamName)
	assert.Equal(t, CreativityPoints, snap.Standings[1].CreativityPoints)
	assert.Equal(t, "Banaan", snap.Standings[2].TeamName)

	require.Len(t, snap.Categories, 2)
	assert.Equal(t, models.CategorySchool, snap.Categories[0].Category)
	assert.Equal(t, uint(8), snap.Categories[0].TotalPoints)
	assert.Equal(t, uint(2), snap.Categories[0].TeamCount)
	assert.InDelta(t, 4.0, snap.Categories[0].AveragePoints, 0.001)

	// 1 号任务两队完成，排在最前
	require.NotEmpty(t, snap.Popular)
	assert.Equal(t, uint16(1), snap.Popular[0].AssignmentNumber)
	assert.Equal(t, uint(2), snap.Popular[0].Completions)

	// 3 号任务无人完成
	assert.Equal(t, []uint16{3}, snap.Uncompleted)

	// 刚刚的完成都在动量窗口内；Appel 2 次领跑
	require.NotNil(t, snap.Momentum)
	assert.Equal(t, "Appel", snap.Momentum.TeamName)
	assert.Equal(t, uint(2), snap.Momentum.RecentCompletions)
}

func TestBuildSnapshotEmptySession(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 77, false)
	seedAssignment(t, 1, 2, "photo")
	seedAssignment(t, 2, 2, "photo")

	snap, err := BuildSnapshot(77)
	require.NoError(t, err)
	assert.Empty(t, snap.Standings)
	assert.Empty(t, snap.Categories)
	assert.Nil(t, snap.Momentum)
	assert.Equal(t, []uint16{1, 2}, snap.Uncompleted)
}

func TestRefreshCommitsSnapshot(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 78, false)
	seedTeam(t, 1, 78, "Appel", models.CategorySchool)
	seedAssignment(t, 1, 3, "photo")
	_, err := ApproveViaReview(1, 1, 78, nil, "an", "")
	require.NoError(t, err)

	agg := newTestAggregator()
	snap, err := agg.Refresh(78)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Same(t, snap, agg.Current(78))
	require.Len(t, snap.Standings, 1)
	assert.Equal(t, uint(3), snap.Standings[0].TotalPoints)
}

func TestNudgeDrainsBeforeDBSwap(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 81, false)
	seedTeam(t, 1, 81, "Appel", models.CategorySchool)
	seedAssignment(t, 1, 2, "photo")
	_, err := ApproveViaReview(1, 1, 81, nil, "an", "")
	require.NoError(t, err)

	NudgeScoreboard(81)
	drainNudges()

	// drain 返回后刷新必须已经落在聚合器里，不能还有协程在读库
	snap := Scoreboard().Current(81)
	require.NotNil(t, snap)
	require.Len(t, snap.Standings, 1)
	assert.Equal(t, uint(2), snap.Standings[0].TotalPoints)
}

func TestMomentumIgnoresOldCompletions(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 79, false)
	seedTeam(t, 1, 79, "Appel", models.CategorySchool)
	seedAssignment(t, 1, 2, "photo")

	old := time.Now().Add(-time.Hour)
	require.NoError(t, database.DB.Create(&models.AssignmentStatus{
		TeamID:           1,
		AssignmentNumber: 1,
		SessionID:        79,
		Status:           models.StatusApproved,
		PointsAwarded:    2,
		CompletionMethod: models.MethodReview,
		CompletedAt:      &old,
	}).Error)

	leader, err := momentumLeader(79, time.Now())
	require.NoError(t, err)
	assert.Nil(t, leader)
}
