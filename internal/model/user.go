package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Leader UserRole = "leader"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	Role        UserRole  `gorm:"type:enum('member','leader','admin');default:'member'" json:"role"`
	ChurchID    uint      `gorm:"index;type:bigint unsigned" json:"churchId"`
	Phone       string    `gorm:"size:30" json:"phone"`
	Avatar      string    `gorm:"size:255" json:"avatar"`
	NewBeliever bool      `gorm:"default:false" json:"newBeliever"`
	Disabled    bool      `gorm:"default:false" json:"disabled"`
	LastLogin   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
