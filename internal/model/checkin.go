package model

import (
	"time"
)

// Service is one scheduled gathering (e.g. a Sunday service) members
// check in to.
// swagger:model Service
type Service struct {
	BaseModel
	ChurchID    uint      `gorm:"index;type:bigint unsigned;not null" json:"churchId"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	ServiceDate time.Time `gorm:"not null;index" json:"serviceDate"`
}

func (Service) TableName() string {
	return "services"
}

// ServiceCheckin records attendance. NewBeliever captures the first-timer
// answer given at the door; a true value flags the user and triggers
// automatic enrollment in the foundation pathway.
// swagger:model ServiceCheckin
type ServiceCheckin struct {
	BaseModel
	ServiceID   uint      `gorm:"index:idx_service_user,unique;type:bigint unsigned;not null" json:"serviceId"`
	UserID      uint      `gorm:"index:idx_service_user,unique;type:bigint unsigned;not null" json:"userId"`
	NewBeliever bool      `gorm:"default:false" json:"newBeliever"`
	CheckedInAt time.Time `gorm:"not null" json:"checkedInAt"`
}

func (ServiceCheckin) TableName() string {
	return "service_checkins"
}
