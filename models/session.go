// file: models/session.go
package models

import (
	"time"
)

// ClockPhase 定义计时器的派生阶段，只在读取时计算，从不落库
type ClockPhase string

const (
	PhaseSetup    ClockPhase = "setup"    // 尚未设置时长
	PhaseReady    ClockPhase = "ready"    // 已设置时长但从未启动
	PhaseRunning  ClockPhase = "running"  // 计时中
	PhasePaused   ClockPhase = "paused"   // 暂停中
	PhaseGrace    ClockPhase = "grace"    // 时间耗尽后的宽限期
	PhaseFinished ClockPhase = "finished" // 宽限期也已结束
)

// GameSession 对应 c88_session 表，一场比赛一行。
// 计时器四元组（duration/start_time/is_running + 双倍积分开关）只由评审团的计时接口修改，
// 每次修改都是单条原子更新。
type GameSession struct {
	ID                 uint32     `gorm:"primarykey" json:"id"`
	SessionName        string     `gorm:"size:100;not null" json:"session_name"`
	Duration           int64      `gorm:"not null;default:0" json:"duration"` // 剩余基准时长，单位秒
	StartTime          *time.Time `json:"start_time"`
	IsRunning          bool       `gorm:"default:0" json:"is_running"`
	DoublePointsActive bool       `gorm:"default:0" json:"double_points_active"`
	Announcement       string     `gorm:"type:text" json:"announcement"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (GameSession) TableName() string {
	return "c88_session"
}
