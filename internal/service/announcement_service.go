package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"
	"drouple_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	announcementCachePrefix = "announcements:published:"
	announcementCacheTTL    = 5 * time.Minute
	publishedFeedLimit      = 20
)

type AnnouncementService struct {
	AnnouncementRepo *repository.AnnouncementRepository
	UserRepo         *repository.UserRepository
	Notifier         *NotificationService
	Redis            *redis.Client
}

func NewAnnouncementService(
	announcementRepo *repository.AnnouncementRepository,
	userRepo *repository.UserRepository,
	notifier *NotificationService,
	rdb *redis.Client,
) *AnnouncementService {
	return &AnnouncementService{
		AnnouncementRepo: announcementRepo,
		UserRepo:         userRepo,
		Notifier:         notifier,
		Redis:            rdb,
	}
}

// Create stores an announcement. Without a schedule it goes live
// immediately; with one, the background publisher picks it up when due.
func (s *AnnouncementService) Create(a *model.Announcement) error {
	if a.ScheduledAt == nil {
		now := time.Now()
		a.Published = true
		a.PublishedAt = &now
	}

	if err := s.AnnouncementRepo.Create(a); err != nil {
		return err
	}

	if a.Published {
		s.invalidateCache(a.ChurchID)
		if a.Notify {
			go s.notifyChurch(a)
		}
	}
	return nil
}

func (s *AnnouncementService) Get(id, churchID uint) (*model.Announcement, error) {
	a, err := s.AnnouncementRepo.FindInChurch(id, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Update(a *model.Announcement) error {
	if err := s.AnnouncementRepo.Update(a); err != nil {
		return err
	}
	s.invalidateCache(a.ChurchID)
	return nil
}

func (s *AnnouncementService) Delete(id, churchID uint) error {
	if _, err := s.Get(id, churchID); err != nil {
		return err
	}
	if err := s.AnnouncementRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCache(churchID)
	return nil
}

func (s *AnnouncementService) ListAll(churchID uint, page, limit int) ([]model.Announcement, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.AnnouncementRepo.ListByChurch(churchID, page, limit)
}

// Feed returns the church's published announcements, cached briefly in
// redis since this backs every member's home screen.
func (s *AnnouncementService) Feed(churchID uint) ([]model.Announcement, error) {
	ctx := context.Background()
	key := fmt.Sprintf("%s%d", announcementCachePrefix, churchID)

	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var cached []model.Announcement
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("announcement cache read failed", zap.Error(err))
		}
	}

	as, err := s.AnnouncementRepo.ListPublished(churchID, publishedFeedLimit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, jsonErr := json.Marshal(as); jsonErr == nil {
			if err := s.Redis.Set(ctx, key, payload, announcementCacheTTL).Err(); err != nil {
				logger.Log.Warn("announcement cache write failed", zap.Error(err))
			}
		}
	}

	return as, nil
}

// Publish makes a draft or scheduled announcement live immediately.
func (s *AnnouncementService) Publish(id, churchID uint) (*model.Announcement, error) {
	a, err := s.Get(id, churchID)
	if err != nil {
		return nil, err
	}
	if a.Published {
		return a, nil
	}

	now := time.Now()
	a.Published = true
	a.PublishedAt = &now
	if err := s.AnnouncementRepo.Update(a); err != nil {
		return nil, err
	}

	s.invalidateCache(a.ChurchID)
	if a.Notify {
		go s.notifyChurch(a)
	}
	return a, nil
}

// ProcessScheduledPublishes publishes every announcement whose schedule has
// passed. Called by the cron job; one failing row does not block the rest.
func (s *AnnouncementService) ProcessScheduledPublishes() error {
	due, err := s.AnnouncementRepo.FindDue(time.Now())
	if err != nil {
		return err
	}

	for i := range due {
		a := &due[i]
		now := time.Now()
		a.Published = true
		a.PublishedAt = &now
		if err := s.AnnouncementRepo.Update(a); err != nil {
			logger.Log.Error("scheduled publish failed",
				zap.Uint("announcementId", a.ID), zap.Error(err))
			continue
		}
		s.invalidateCache(a.ChurchID)
		if a.Notify {
			go s.notifyChurch(a)
		}
		logger.Log.Info("scheduled announcement published",
			zap.Uint("announcementId", a.ID),
			zap.Uint("churchId", a.ChurchID))
	}
	return nil
}

func (s *AnnouncementService) notifyChurch(a *model.Announcement) {
	emails, err := s.UserRepo.EmailsByChurch(a.ChurchID)
	if err != nil {
		logger.Log.Error("collecting blast recipients failed",
			zap.Uint("churchId", a.ChurchID), zap.Error(err))
		return
	}
	s.Notifier.SendAnnouncementBlast(emails, a.Title, a.Body)
}

func (s *AnnouncementService) invalidateCache(churchID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("%s%d", announcementCachePrefix, churchID)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Warn("announcement cache invalidation failed", zap.Error(err))
	}
}
