package service

import (
	"errors"
	"strconv"
	"time"

	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"
	"drouple_backend/pkg/logger"
	"drouple_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckinService struct {
	CheckinRepo *repository.CheckinRepository
	UserRepo    *repository.UserRepository
	Pathway     *PathwayService
}

func NewCheckinService(checkinRepo *repository.CheckinRepository, userRepo *repository.UserRepository, pathway *PathwayService) *CheckinService {
	return &CheckinService{
		CheckinRepo: checkinRepo,
		UserRepo:    userRepo,
		Pathway:     pathway,
	}
}

func (s *CheckinService) CreateService(svc *model.Service) error {
	return s.CheckinRepo.CreateService(svc)
}

func (s *CheckinService) ListServices(churchID uint, page, limit int) ([]model.Service, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CheckinRepo.ListServices(churchID, page, limit)
}

func (s *CheckinService) TodayServices(churchID uint) ([]model.Service, error) {
	return s.CheckinRepo.FindServicesOnDate(churchID, time.Now())
}

// CheckIn records attendance for a service. A repeat check-in returns the
// existing record. Answering "new believer" at the door flags the user and
// fires the foundation pathway auto-enrollment; the mobile offline queue
// replays this call safely because every leg is idempotent.
func (s *CheckinService) CheckIn(serviceID, userID, churchID uint, newBeliever bool) (*model.ServiceCheckin, error) {
	svc, err := s.CheckinRepo.FindServiceInChurch(serviceID, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrServiceNotFound
		}
		return nil, err
	}

	existing, err := s.CheckinRepo.FindCheckin(serviceID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	checkin := &model.ServiceCheckin{
		ServiceID:   serviceID,
		UserID:      userID,
		NewBeliever: newBeliever,
		CheckedInAt: time.Now(),
	}
	if err := s.CheckinRepo.CreateCheckin(checkin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.CheckinRepo.FindCheckin(serviceID, userID)
		}
		return nil, err
	}

	monitoring.CheckinCounter.WithLabelValues(strconv.FormatUint(uint64(svc.ChurchID), 10)).Inc()

	if newBeliever {
		if err := s.UserRepo.SetNewBeliever(userID, true); err != nil {
			return nil, err
		}
		if _, err := s.Pathway.AutoEnrollNewBeliever(userID); err != nil {
			// Attendance is already recorded; enrollment can be retried on
			// the next touch point.
			logger.Log.Error("auto-enroll after check-in failed",
				zap.Uint("userId", userID), zap.Error(err))
		}
	}

	return checkin, nil
}

type ServiceAttendance struct {
	Service      model.Service `json:"service"`
	Total        int64         `json:"total"`
	NewBelievers int64         `json:"newBelievers"`
}

func (s *CheckinService) Attendance(serviceID, churchID uint) (*ServiceAttendance, error) {
	svc, err := s.CheckinRepo.FindServiceInChurch(serviceID, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrServiceNotFound
		}
		return nil, err
	}

	total, err := s.CheckinRepo.CountCheckins(serviceID)
	if err != nil {
		return nil, err
	}
	newBelievers, err := s.CheckinRepo.CountNewBelievers(serviceID)
	if err != nil {
		return nil, err
	}

	return &ServiceAttendance{
		Service:      *svc,
		Total:        total,
		NewBelievers: newBelievers,
	}, nil
}
