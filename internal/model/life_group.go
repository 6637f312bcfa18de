package model

import (
	"time"
)

type MembershipStatus string

const (
	MembershipActive MembershipStatus = "active"
	MembershipLeft   MembershipStatus = "left"
)

// swagger:model LifeGroup
type LifeGroup struct {
	BaseModel
	ChurchID    uint   `gorm:"index;type:bigint unsigned;not null" json:"churchId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	LeaderID    uint   `gorm:"type:bigint unsigned" json:"leaderId"`
	Schedule    string `gorm:"size:255" json:"schedule"`
	Capacity    int    `gorm:"default:0" json:"capacity"` // 0 = unlimited
}

func (LifeGroup) TableName() string {
	return "life_groups"
}

// swagger:model GroupMembership
type GroupMembership struct {
	BaseModel
	GroupID  uint             `gorm:"index:idx_group_user;type:bigint unsigned;not null" json:"groupId"`
	UserID   uint             `gorm:"index:idx_group_user;type:bigint unsigned;not null" json:"userId"`
	Status   MembershipStatus `gorm:"type:enum('active','left');default:'active'" json:"status"`
	JoinedAt time.Time        `gorm:"not null" json:"joinedAt"`
	LeftAt   *time.Time       `json:"leftAt,omitempty"`
}

func (GroupMembership) TableName() string {
	return "group_memberships"
}
