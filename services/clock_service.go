// file: services/clock_service.go
package services

import (
	"errors"
	"time"

	"crazy88/database"
	"crazy88/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GracePeriodSeconds 时间自然耗尽后仍接受完成操作的宽限窗口
const GracePeriodSeconds int64 = 300

var (
	ErrSessionNotFound = errors.New("比赛不存在")
	ErrClockRunning    = errors.New("计时器正在运行")
	ErrClockNotRunning = errors.New("计时器未在运行")
	ErrNoDuration      = errors.New("尚未设置比赛时长")
)

// GetSession 读取比赛记录
func GetSession(sessionID uint32) (*models.GameSession, error) {
	var s models.GameSession
	if err := database.DB.First(&s, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DerivePhase 由计时器四元组派生比赛阶段。纯函数，每次读取时重新计算，从不落库。
func DerivePhase(s *models.GameSession, now time.Time) models.ClockPhase {
	if s.Duration <= 0 {
		return models.PhaseSetup
	}
	if s.StartTime == nil {
		return models.PhaseReady
	}
	elapsed := int64(now.Sub(*s.StartTime) / time.Second)
	remaining := s.Duration - elapsed
	if remaining > 0 {
		if s.IsRunning {
			return models.PhaseRunning
		}
		return models.PhasePaused
	}
	if -remaining < GracePeriodSeconds {
		return models.PhaseGrace
	}
	return models.PhaseFinished
}

// RemainingSeconds 当前剩余秒数（宽限期及之后为 0），用于展示
func RemainingSeconds(s *models.GameSession, now time.Time) int64 {
	if s.StartTime == nil {
		return s.Duration
	}
	remaining := s.Duration - int64(now.Sub(*s.StartTime)/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CompletionAllowed 完成写入方的阶段闸门：只有 running/paused/grace 允许写入。
// 每个完成写入方都要自己检查，不能只依赖前端。
func CompletionAllowed(s *models.GameSession, now time.Time) bool {
	switch DerivePhase(s, now) {
	case models.PhaseRunning, models.PhasePaused, models.PhaseGrace:
		return true
	}
	return false
}

// lockForUpdate 行锁；SQLite 没有 FOR UPDATE 语法，其写事务本身已串行
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// mutateClock 在行锁事务中修改计时器字段，保证每个操作是单条原子更新
func mutateClock(sessionID uint32, fn func(s *models.GameSession) (map[string]interface{}, error)) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var s models.GameSession
		if err := lockForUpdate(tx).First(&s, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		updates, err := fn(&s)
		if err != nil {
			return err
		}
		return tx.Model(&s).Updates(updates).Error
	})
}

// SetDuration 设置时长，仅在未运行时允许；同时回到未启动状态
func SetDuration(sessionID uint32, seconds int64) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		if s.IsRunning {
			return nil, ErrClockRunning
		}
		return map[string]interface{}{
			"duration":   seconds,
			"start_time": nil,
		}, nil
	})
}

// StartClock 启动计时，要求已设置时长且未在运行
func StartClock(sessionID uint32) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		if s.IsRunning {
			return nil, ErrClockRunning
		}
		if s.Duration <= 0 {
			return nil, ErrNoDuration
		}
		return map[string]interface{}{
			"start_time": time.Now(),
			"is_running": true,
		}, nil
	})
}

// PauseClock 暂停计时：把剩余时间折算为新的时长基准，并清掉 start_time
func PauseClock(sessionID uint32) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		if !s.IsRunning {
			return nil, ErrClockNotRunning
		}
		remaining := s.Duration
		if s.StartTime != nil {
			remaining -= int64(time.Since(*s.StartTime) / time.Second)
		}
		if remaining < 0 {
			remaining = 0
		}
		return map[string]interface{}{
			"duration":   remaining,
			"start_time": nil,
			"is_running": false,
		}, nil
	})
}

// ResumeClock 从暂停恢复计时
func ResumeClock(sessionID uint32) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		if s.IsRunning {
			return nil, ErrClockRunning
		}
		if s.Duration <= 0 {
			return nil, ErrNoDuration
		}
		return map[string]interface{}{
			"start_time": time.Now(),
			"is_running": true,
		}, nil
	})
}

// StopClock 无条件硬复位
func StopClock(sessionID uint32) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		return map[string]interface{}{
			"duration":   0,
			"start_time": nil,
			"is_running": false,
		}, nil
	})
}

// SetDoublePoints 切换双倍积分
func SetDoublePoints(sessionID uint32, active bool) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		return map[string]interface{}{"double_points_active": active}, nil
	})
}

// SetAnnouncement 更新滚动公告
func SetAnnouncement(sessionID uint32, text string) error {
	return mutateClock(sessionID, func(s *models.GameSession) (map[string]interface{}, error) {
		return map[string]interface{}{"announcement": text}, nil
	})
}
