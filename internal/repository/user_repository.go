package repository

import (
	"time"

	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

func (r *UserRepository) SetNewBeliever(userID uint, flag bool) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("new_believer", flag).
		Error
}

func (r *UserRepository) SetDisabled(userID uint, disabled bool) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("disabled", disabled).
		Error
}

// FindByChurch lists members of a church with an optional name/email search.
func (r *UserRepository) FindByChurch(churchID uint, search string, page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64
	query := r.DB.Model(&model.User{}).Where("church_id = ?", churchID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// EmailsByChurch returns addresses of enabled members for notification blasts.
func (r *UserRepository) EmailsByChurch(churchID uint) ([]string, error) {
	var emails []string
	err := r.DB.Model(&model.User{}).
		Where("church_id = ? AND disabled = ?", churchID, false).
		Pluck("email", &emails).
		Error
	return emails, err
}

func (r *UserRepository) CountByChurch(churchID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("church_id = ?", churchID).Count(&count).Error
	return count, err
}
