// file: services/clock_service_test.go
package services

import (
	"testing"
	"time"

	"crazy88/database"
	"crazy88/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionAt 的 start_time 必须从断言用的同一个 now 倒推，
// 否则两次 time.Now() 之间的间隙会让边界用例差一秒
func sessionAt(now time.Time, duration int64, startedAgo time.Duration, running bool) *models.GameSession {
	s := &models.GameSession{Duration: duration, IsRunning: running}
	if startedAgo > 0 {
		start := now.Add(-startedAgo)
		s.StartTime = &start
	}
	return s
}

func TestDerivePhase(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name    string
		session *models.GameSession
		want    models.ClockPhase
	}{
		{"no duration is setup", sessionAt(now, 0, 0, false), models.PhaseSetup},
		{"duration set never started", sessionAt(now, 600, 0, false), models.PhaseReady},
		{"running with time left", sessionAt(now, 600, 100*time.Second, true), models.PhaseRunning},
		{"stopped with time left", sessionAt(now, 600, 100*time.Second, false), models.PhasePaused},
		// 600 秒时长、650 秒前启动：超时 50 秒，处于 300 秒宽限窗口内
		{"50s into grace window", sessionAt(now, 600, 650*time.Second, false), models.PhaseGrace},
		{"grace also applies while running", sessionAt(now, 600, 650*time.Second, true), models.PhaseGrace},
		// 超时整 300 秒：宽限期恰好结束
		{"exactly past grace window", sessionAt(now, 600, 900*time.Second, false), models.PhaseFinished},
		{"long finished", sessionAt(now, 600, 2*time.Hour, true), models.PhaseFinished},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DerivePhase(tc.session, now))
		})
	}
}

func TestCompletionAllowedByPhase(t *testing.T) {
	now := time.Now()

	assert.True(t, CompletionAllowed(sessionAt(now, 600, 100*time.Second, true), now))
	assert.True(t, CompletionAllowed(sessionAt(now, 600, 100*time.Second, false), now)) // paused
	assert.True(t, CompletionAllowed(sessionAt(now, 600, 650*time.Second, false), now)) // grace
	assert.False(t, CompletionAllowed(sessionAt(now, 0, 0, false), now))                // setup
	assert.False(t, CompletionAllowed(sessionAt(now, 600, 0, false), now))              // ready
	assert.False(t, CompletionAllowed(sessionAt(now, 600, 950*time.Second, true), now)) // finished
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Now()

	assert.Equal(t, int64(600), RemainingSeconds(sessionAt(now, 600, 0, false), now))
	assert.Equal(t, int64(500), RemainingSeconds(sessionAt(now, 600, 100*time.Second, true), now))
	assert.Equal(t, int64(0), RemainingSeconds(sessionAt(now, 600, 700*time.Second, false), now))
}

func TestClockLifecycle(t *testing.T) {
	setupTestDB(t)

	s := models.GameSession{ID: 11, SessionName: "lifecycle"}
	require.NoError(t, database.DB.Create(&s).Error)

	// 未设置时长不能启动
	require.ErrorIs(t, StartClock(11), ErrNoDuration)

	require.NoError(t, SetDuration(11, 600))
	require.NoError(t, StartClock(11))

	reloaded, err := GetSession(11)
	require.NoError(t, err)
	assert.True(t, reloaded.IsRunning)
	assert.NotNil(t, reloaded.StartTime)
	assert.Equal(t, models.PhaseRunning, DerivePhase(reloaded, time.Now()))

	// 运行中不允许改时长，也不允许重复启动
	require.ErrorIs(t, SetDuration(11, 900), ErrClockRunning)
	require.ErrorIs(t, StartClock(11), ErrClockRunning)

	require.NoError(t, PauseClock(11))
	reloaded, err = GetSession(11)
	require.NoError(t, err)
	assert.False(t, reloaded.IsRunning)
	assert.Nil(t, reloaded.StartTime)
	// 剩余时间折算成新的基准时长
	assert.InDelta(t, 600, reloaded.Duration, 2)

	require.ErrorIs(t, PauseClock(11), ErrClockNotRunning)

	require.NoError(t, ResumeClock(11))
	reloaded, err = GetSession(11)
	require.NoError(t, err)
	assert.True(t, reloaded.IsRunning)

	require.NoError(t, StopClock(11))
	reloaded, err = GetSession(11)
	require.NoError(t, err)
	assert.False(t, reloaded.IsRunning)
	assert.Nil(t, reloaded.StartTime)
	assert.Equal(t, int64(0), reloaded.Duration)
	assert.Equal(t, models.PhaseSetup, DerivePhase(reloaded, time.Now()))
}

func TestPauseComputesRemaining(t *testing.T) {
	setupTestDB(t)

	start := time.Now().Add(-100 * time.Second)
	s := models.GameSession{ID: 12, SessionName: "pause", Duration: 600, StartTime: &start, IsRunning: true}
	require.NoError(t, database.DB.Create(&s).Error)

	require.NoError(t, PauseClock(12))

	reloaded, err := GetSession(12)
	require.NoError(t, err)
	assert.InDelta(t, 500, reloaded.Duration, 2)
	assert.Nil(t, reloaded.StartTime)
}

func TestSetDoublePointsAndAnnouncement(t *testing.T) {
	setupTestDB(t)
	seedRunningSession(t, 13, false)

	require.NoError(t, SetDoublePoints(13, true))
	require.NoError(t, SetAnnouncement(13, "laatste kwartier!"))

	reloaded, err := GetSession(13)
	require.NoError(t, err)
	assert.True(t, reloaded.DoublePointsActive)
	assert.Equal(t, "laatste kwartier!", reloaded.Announcement)
}
