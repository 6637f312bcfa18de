package service

import (
	"errors"

	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"

	"gorm.io/gorm"
)

type EventService struct {
	EventRepo *repository.EventRepository
}

func NewEventService(eventRepo *repository.EventRepository) *EventService {
	return &EventService{EventRepo: eventRepo}
}

func (s *EventService) Create(event *model.Event) error {
	return s.EventRepo.Create(event)
}

func (s *EventService) Get(id, churchID uint) (*model.Event, error) {
	event, err := s.EventRepo.FindInChurch(id, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) Update(event *model.Event) error {
	return s.EventRepo.Update(event)
}

func (s *EventService) Delete(id, churchID uint) error {
	if _, err := s.Get(id, churchID); err != nil {
		return err
	}
	return s.EventRepo.Delete(id)
}

func (s *EventService) ListUpcoming(churchID uint, page, limit int) ([]model.Event, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.EventRepo.ListUpcoming(churchID, page, limit)
}

// RSVP records or updates the user's reply. Capacity only constrains the
// "going" answer; switching away from "going" frees a seat.
func (s *EventService) RSVP(eventID, userID, churchID uint, status model.RSVPStatus) (*model.EventRSVP, error) {
	event, err := s.Get(eventID, churchID)
	if err != nil {
		return nil, err
	}

	rsvp, err := s.EventRepo.FindRSVP(eventID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	exists := err == nil

	if status == model.RSVPGoing && event.Capacity > 0 {
		alreadyGoing := exists && rsvp.Status == model.RSVPGoing
		if !alreadyGoing {
			going, err := s.EventRepo.CountGoing(eventID)
			if err != nil {
				return nil, err
			}
			if going >= int64(event.Capacity) {
				return nil, util.ErrEventFull
			}
		}
	}

	if exists {
		rsvp.Status = status
		if err := s.EventRepo.UpdateRSVP(rsvp); err != nil {
			return nil, err
		}
		return rsvp, nil
	}

	rsvp = &model.EventRSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	if err := s.EventRepo.CreateRSVP(rsvp); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.EventRepo.FindRSVP(eventID, userID)
		}
		return nil, err
	}
	return rsvp, nil
}

func (s *EventService) Attendees(eventID, churchID uint) ([]model.User, error) {
	if _, err := s.Get(eventID, churchID); err != nil {
		return nil, err
	}
	return s.EventRepo.Attendees(eventID)
}
