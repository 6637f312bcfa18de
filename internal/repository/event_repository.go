package repository

import (
	"time"

	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindInChurch(id, churchID uint) (*model.Event, error) {
	var e model.Event
	err := r.DB.Where("id = ? AND church_id = ?", id, churchID).First(&e).Error
	return &e, err
}

func (r *EventRepository) Update(event *model.Event) error {
	return r.DB.Save(event).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Event{}, id).Error
}

func (r *EventRepository) ListUpcoming(churchID uint, page, limit int) ([]model.Event, int64, error) {
	var es []model.Event
	var total int64
	query := r.DB.Model(&model.Event{}).
		Where("church_id = ? AND starts_at >= ?", churchID, time.Now())
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("starts_at asc").Offset(offset).Limit(limit).Find(&es).Error
	return es, total, err
}

func (r *EventRepository) FindRSVP(eventID, userID uint) (*model.EventRSVP, error) {
	var rsvp model.EventRSVP
	err := r.DB.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error
	return &rsvp, err
}

func (r *EventRepository) CreateRSVP(rsvp *model.EventRSVP) error {
	return r.DB.Create(rsvp).Error
}

func (r *EventRepository) UpdateRSVP(rsvp *model.EventRSVP) error {
	return r.DB.Save(rsvp).Error
}

func (r *EventRepository) CountGoing(eventID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventRSVP{}).
		Where("event_id = ? AND status = ?", eventID, model.RSVPGoing).
		Count(&count).Error
	return count, err
}

// Attendees returns users who RSVP'd "going".
func (r *EventRepository) Attendees(eventID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("JOIN event_rsvps ON event_rsvps.user_id = users.id").
		Where("event_rsvps.event_id = ? AND event_rsvps.status = ?", eventID, model.RSVPGoing).
		Order("users.name asc").
		Find(&users).Error
	return users, err
}
