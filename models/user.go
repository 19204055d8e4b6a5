// file: models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"time"
)

// 自定义类型 UserRole, UserStatus
type UserRole string
type UserStatus string

const (
	// RoleTeam 只出现在队伍设备的 Token 中，不对应 c88_user 行
	RoleTeam     UserRole = "team"
	RoleReviewer UserRole = "reviewer"
	RoleJury     UserRole = "jury"

	StatusActive UserStatus = "active"
	StatusBanned UserStatus = "banned"
)

// User 对应 c88_user 表，评审员与评审团的后台账号
type User struct {
	ID        uint32     `gorm:"primarykey" json:"id"`
	Username  string     `gorm:"size:50;unique;not null" json:"username"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      UserRole   `gorm:"size:20;not null;default:'reviewer'" json:"role"`
	Status    UserStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "c88_user"
}

// BeforeSave GORM Hook，在保存用户前自动哈希密码
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	// 在新用户创建时 (ID=0) 或在老用户更新密码时，都执行哈希
	if u.ID == 0 || tx.Statement.Changed("Password") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return
}

// CheckPassword 校验密码是否正确
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
