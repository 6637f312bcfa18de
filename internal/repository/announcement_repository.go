package repository

import (
	"time"

	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	DB *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{DB: db}
}

func (r *AnnouncementRepository) Create(a *model.Announcement) error {
	return r.DB.Create(a).Error
}

func (r *AnnouncementRepository) FindInChurch(id, churchID uint) (*model.Announcement, error) {
	var a model.Announcement
	err := r.DB.Where("id = ? AND church_id = ?", id, churchID).First(&a).Error
	return &a, err
}

func (r *AnnouncementRepository) Update(a *model.Announcement) error {
	return r.DB.Save(a).Error
}

func (r *AnnouncementRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Announcement{}, id).Error
}

func (r *AnnouncementRepository) ListPublished(churchID uint, limit int) ([]model.Announcement, error) {
	var as []model.Announcement
	err := r.DB.Where("church_id = ? AND published = ?", churchID, true).
		Order("published_at desc").
		Limit(limit).
		Find(&as).Error
	return as, err
}

func (r *AnnouncementRepository) ListByChurch(churchID uint, page, limit int) ([]model.Announcement, int64, error) {
	var as []model.Announcement
	var total int64
	query := r.DB.Model(&model.Announcement{}).Where("church_id = ?", churchID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

// FindDue returns unpublished announcements whose schedule has passed.
func (r *AnnouncementRepository) FindDue(now time.Time) ([]model.Announcement, error) {
	var as []model.Announcement
	err := r.DB.Where("published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Find(&as).Error
	return as, err
}
