package repository

import (
	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type ChurchRepository struct {
	DB *gorm.DB
}

func NewChurchRepository(db *gorm.DB) *ChurchRepository {
	return &ChurchRepository{DB: db}
}

func (r *ChurchRepository) Create(church *model.Church) error {
	return r.DB.Create(church).Error
}

func (r *ChurchRepository) FindByID(id uint) (*model.Church, error) {
	var church model.Church
	err := r.DB.First(&church, id).Error
	return &church, err
}

func (r *ChurchRepository) FindBySlug(slug string) (*model.Church, error) {
	var church model.Church
	err := r.DB.Where("slug = ? AND active = ?", slug, true).First(&church).Error
	return &church, err
}

func (r *ChurchRepository) Update(church *model.Church) error {
	return r.DB.Save(church).Error
}

func (r *ChurchRepository) List(page, limit int) ([]model.Church, int64, error) {
	var churches []model.Church
	var total int64
	query := r.DB.Model(&model.Church{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&churches).Error
	return churches, total, err
}
