package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台账号（店铺管理员或销售代理人）
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`                        // 登录账号
	DisplayName  string         `gorm:"type:varchar(100)" json:"display_name"`                       // 显示名称
	PasswordHash string         `gorm:"not null" json:"-"`                                           // 密码哈希
	Role         string         `gorm:"type:varchar(50);not null;default:'sales_agent'" json:"role"` // 角色
	IsSuper      bool           `gorm:"not null;default:false;index" json:"is_super"`                // 超级管理员（免权限校验）
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                                 // Token 版本
	LastLoginAt  *time.Time     `json:"last_login_at"`                                               // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}

// Name 对外展示名称
func (a Admin) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// Customer 注册客户
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`
	FirstName string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string         `gorm:"type:varchar(100)" json:"last_name"`
	Billing   BillingAddress `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
