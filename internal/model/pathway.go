package model

import (
	"time"
)

type PathwayType string

const (
	PathwayFoundation PathwayType = "foundation"
	PathwayGrowth     PathwayType = "growth"
	PathwayIntensive  PathwayType = "intensive"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Pathway is a named, ordered discipleship program scoped to a church.
// The foundation pathway of a church doubles as the auto-enrollment target
// for new believers and is created lazily on first demand.
// swagger:model Pathway
type Pathway struct {
	BaseModel
	ChurchID    uint        `gorm:"index;type:bigint unsigned;not null" json:"churchId"`
	Type        PathwayType `gorm:"type:enum('foundation','growth','intensive');not null" json:"type"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Active      bool        `gorm:"default:true" json:"active"`
	Steps       []PathwayStep `gorm:"foreignKey:PathwayID" json:"steps,omitempty"`
}

func (Pathway) TableName() string {
	return "pathways"
}

// swagger:model PathwayStep
type PathwayStep struct {
	BaseModel
	PathwayID   uint   `gorm:"index;type:bigint unsigned;not null" json:"pathwayId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
}

func (PathwayStep) TableName() string {
	return "pathway_steps"
}

// PathwayEnrollment ties a user to a pathway. At most one non-dropped row
// per (pathway, user) pair; enrolled -> completed/dropped are terminal.
// swagger:model PathwayEnrollment
type PathwayEnrollment struct {
	BaseModel
	PathwayID   uint             `gorm:"index:idx_pathway_user;type:bigint unsigned;not null" json:"pathwayId"`
	UserID      uint             `gorm:"index:idx_pathway_user;type:bigint unsigned;not null" json:"userId"`
	Status      EnrollmentStatus `gorm:"type:enum('enrolled','completed','dropped');default:'enrolled'" json:"status"`
	EnrolledAt  time.Time        `gorm:"not null" json:"enrolledAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	DroppedAt   *time.Time       `json:"droppedAt,omitempty"`
}

func (PathwayEnrollment) TableName() string {
	return "pathway_enrollments"
}

// PathwayProgress records one completed step for one user, optionally
// attributed to the leader who verified it. Rows are never updated or
// deleted; the unique index makes duplicate completions a no-op.
// swagger:model PathwayProgress
type PathwayProgress struct {
	BaseModel
	StepID      uint      `gorm:"index:idx_step_user,unique;type:bigint unsigned;not null" json:"stepId"`
	UserID      uint      `gorm:"index:idx_step_user,unique;type:bigint unsigned;not null" json:"userId"`
	CompletedBy *uint     `gorm:"type:bigint unsigned" json:"completedBy,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (PathwayProgress) TableName() string {
	return "pathway_progress"
}
