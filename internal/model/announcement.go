package model

import (
	"time"
)

// Announcement is church-wide news. ScheduledAt in the future defers
// publishing to the background job; Notify sends an email blast to the
// church's members when the announcement goes live.
// swagger:model Announcement
type Announcement struct {
	BaseModel
	ChurchID    uint       `gorm:"index;type:bigint unsigned;not null" json:"churchId"`
	AuthorID    uint       `gorm:"type:bigint unsigned;not null" json:"authorId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Body        string     `gorm:"type:text" json:"body"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduledAt,omitempty"`
	Notify      bool       `gorm:"default:false" json:"notify"`
}

func (Announcement) TableName() string {
	return "announcements"
}
