package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Username           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"` // 用户名
	Email              string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`   // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                                     // 密码哈希（不返回给前端）
	Bio                string         `gorm:"type:varchar(500);default:''" json:"bio"`               // 个人简介
	Location           string         `gorm:"type:varchar(100);default:''" json:"location"`          // 所在地
	ProfileImage       string         `gorm:"type:varchar(500);default:''" json:"profile_image"`     // 头像
	Status             string         `gorm:"type:varchar(20);default:'active'" json:"status"`       // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                           // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                        // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                         // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// UserSummary 用户公开信息，用于关联展示；不带软删除条件，注销用户仍可解析
type UserSummary struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profile_image"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (UserSummary) TableName() string {
	return "users"
}

// Summary 转为公开信息
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		Location:     u.Location,
		CreatedAt:    u.CreatedAt,
	}
}
