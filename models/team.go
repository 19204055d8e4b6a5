// file: models/team.go
package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"time"
)

// TeamCategory 队伍分组，固定的小枚举
type TeamCategory string

const (
	CategorySchool  TeamCategory = "school"
	CategoryFriends TeamCategory = "friends"
	CategoryFamily  TeamCategory = "family"
)

// Team 对应 c88_team 表。队伍隶属于唯一一场比赛；
// 删除队伍时级联删除其状态、得分与提交记录（见 team_controller）。
type Team struct {
	ID         uint32       `gorm:"primarykey" json:"id"`
	TeamName   string       `gorm:"size:100;not null;uniqueIndex:uq_team_name,priority:2" json:"team_name"`
	Category   TeamCategory `gorm:"size:20;not null;default:'school'" json:"category"`
	SessionID  uint32       `gorm:"not null;uniqueIndex:uq_team_name,priority:1" json:"session_id"`
	AccessCode string       `gorm:"size:255;not null" json:"-"` // 队伍设备登录口令，bcrypt 哈希存储
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (Team) TableName() string {
	return "c88_team"
}

// BeforeSave GORM Hook，保存前自动哈希口令
func (t *Team) BeforeSave(tx *gorm.DB) (err error) {
	if t.ID == 0 || tx.Statement.Changed("AccessCode") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(t.AccessCode), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		t.AccessCode = string(hashed)
	}
	return
}

// CheckAccessCode 校验队伍口令
func (t *Team) CheckAccessCode(code string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(t.AccessCode), []byte(code))
	return err == nil
}
