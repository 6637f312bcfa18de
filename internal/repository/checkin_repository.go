package repository

import (
	"time"

	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

func (r *CheckinRepository) CreateService(svc *model.Service) error {
	return r.DB.Create(svc).Error
}

func (r *CheckinRepository) FindServiceInChurch(id, churchID uint) (*model.Service, error) {
	var svc model.Service
	err := r.DB.Where("id = ? AND church_id = ?", id, churchID).First(&svc).Error
	return &svc, err
}

func (r *CheckinRepository) ListServices(churchID uint, page, limit int) ([]model.Service, int64, error) {
	var svcs []model.Service
	var total int64
	query := r.DB.Model(&model.Service{}).Where("church_id = ?", churchID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("service_date desc").Offset(offset).Limit(limit).Find(&svcs).Error
	return svcs, total, err
}

func (r *CheckinRepository) FindServicesOnDate(churchID uint, date time.Time) ([]model.Service, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour).Add(-1 * time.Nanosecond)

	var svcs []model.Service
	err := r.DB.Where("church_id = ? AND service_date BETWEEN ? AND ?", churchID, startOfDay, endOfDay).
		Order("service_date asc").
		Find(&svcs).Error
	return svcs, err
}

func (r *CheckinRepository) CreateCheckin(checkin *model.ServiceCheckin) error {
	return r.DB.Create(checkin).Error
}

func (r *CheckinRepository) FindCheckin(serviceID, userID uint) (*model.ServiceCheckin, error) {
	var c model.ServiceCheckin
	err := r.DB.Where("service_id = ? AND user_id = ?", serviceID, userID).First(&c).Error
	return &c, err
}

func (r *CheckinRepository) ListCheckins(serviceID uint) ([]model.ServiceCheckin, error) {
	var cs []model.ServiceCheckin
	err := r.DB.Where("service_id = ?", serviceID).Order("checked_in_at asc").Find(&cs).Error
	return cs, err
}

func (r *CheckinRepository) CountCheckins(serviceID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ServiceCheckin{}).Where("service_id = ?", serviceID).Count(&count).Error
	return count, err
}

func (r *CheckinRepository) CountNewBelievers(serviceID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ServiceCheckin{}).
		Where("service_id = ? AND new_believer = ?", serviceID, true).
		Count(&count).Error
	return count, err
}
