package model

import (
	"time"
)

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

// swagger:model Event
type Event struct {
	BaseModel
	ChurchID    uint      `gorm:"index;type:bigint unsigned;not null" json:"churchId"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"not null;index" json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 = unlimited
}

func (Event) TableName() string {
	return "events"
}

// swagger:model EventRSVP
type EventRSVP struct {
	BaseModel
	EventID uint       `gorm:"index:idx_event_user,unique;type:bigint unsigned;not null" json:"eventId"`
	UserID  uint       `gorm:"index:idx_event_user,unique;type:bigint unsigned;not null" json:"userId"`
	Status  RSVPStatus `gorm:"type:enum('going','maybe','declined');not null" json:"status"`
}

func (EventRSVP) TableName() string {
	return "event_rsvps"
}
