package repository

import (
	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type PathwayRepository struct {
	DB *gorm.DB
}

func NewPathwayRepository(db *gorm.DB) *PathwayRepository {
	return &PathwayRepository{DB: db}
}

func (r *PathwayRepository) FindByID(id uint) (*model.Pathway, error) {
	var p model.Pathway
	err := r.DB.First(&p, id).Error
	return &p, err
}

// FindByIDInChurch resolves a pathway only when it belongs to the given
// church; a pathway of another tenant looks identical to a missing one.
func (r *PathwayRepository) FindByIDInChurch(id, churchID uint) (*model.Pathway, error) {
	var p model.Pathway
	err := r.DB.Where("id = ? AND church_id = ?", id, churchID).First(&p).Error
	return &p, err
}

func (r *PathwayRepository) FindActiveByIDInChurch(id, churchID uint) (*model.Pathway, error) {
	var p model.Pathway
	err := r.DB.Where("id = ? AND church_id = ? AND active = ?", id, churchID, true).First(&p).Error
	return &p, err
}

// FindDefaultByType returns the first active pathway of the given type for
// the church. Duplicates are tolerated; ordering keeps selection stable.
func (r *PathwayRepository) FindDefaultByType(churchID uint, ptype model.PathwayType) (*model.Pathway, error) {
	var p model.Pathway
	err := r.DB.Where("church_id = ? AND type = ? AND active = ?", churchID, ptype, true).
		Order("id asc").
		First(&p).Error
	return &p, err
}

func (r *PathwayRepository) Create(pathway *model.Pathway) error {
	return r.DB.Create(pathway).Error
}

func (r *PathwayRepository) Update(pathway *model.Pathway) error {
	return r.DB.Save(pathway).Error
}

func (r *PathwayRepository) ListByChurch(churchID uint, page, limit int) ([]model.Pathway, int64, error) {
	var ps []model.Pathway
	var total int64
	query := r.DB.Model(&model.Pathway{}).Where("church_id = ?", churchID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, total, err
}

func (r *PathwayRepository) FindStepByID(id uint) (*model.PathwayStep, error) {
	var s model.PathwayStep
	err := r.DB.First(&s, id).Error
	return &s, err
}

// FindSteps returns the pathway's steps in program order, ties broken by
// creation order.
func (r *PathwayRepository) FindSteps(pathwayID uint) ([]model.PathwayStep, error) {
	var steps []model.PathwayStep
	err := r.DB.Where("pathway_id = ?", pathwayID).
		Order("order_index asc, id asc").
		Find(&steps).Error
	return steps, err
}

func (r *PathwayRepository) CountSteps(pathwayID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PathwayStep{}).Where("pathway_id = ?", pathwayID).Count(&count).Error
	return count, err
}

func (r *PathwayRepository) CreateStep(step *model.PathwayStep) error {
	return r.DB.Create(step).Error
}

func (r *PathwayRepository) UpdateStep(step *model.PathwayStep) error {
	return r.DB.Save(step).Error
}

func (r *PathwayRepository) DeleteStep(id uint) error {
	return r.DB.Delete(&model.PathwayStep{}, id).Error
}

// FindEnrollment returns the user's non-dropped enrollment for a pathway.
func (r *PathwayRepository) FindEnrollment(pathwayID, userID uint) (*model.PathwayEnrollment, error) {
	var e model.PathwayEnrollment
	err := r.DB.Where("pathway_id = ? AND user_id = ? AND status <> ?",
		pathwayID, userID, model.EnrollmentDropped).
		First(&e).Error
	return &e, err
}

func (r *PathwayRepository) FindEnrolled(pathwayID, userID uint) (*model.PathwayEnrollment, error) {
	var e model.PathwayEnrollment
	err := r.DB.Where("pathway_id = ? AND user_id = ? AND status = ?",
		pathwayID, userID, model.EnrollmentEnrolled).
		First(&e).Error
	return &e, err
}

func (r *PathwayRepository) FindEnrollmentsByUser(userID uint) ([]model.PathwayEnrollment, error) {
	var es []model.PathwayEnrollment
	err := r.DB.Where("user_id = ?", userID).Order("enrolled_at asc").Find(&es).Error
	return es, err
}

func (r *PathwayRepository) CreateEnrollment(e *model.PathwayEnrollment) error {
	return r.DB.Create(e).Error
}

func (r *PathwayRepository) UpdateEnrollment(e *model.PathwayEnrollment) error {
	return r.DB.Save(e).Error
}

func (r *PathwayRepository) FindProgress(stepID, userID uint) (*model.PathwayProgress, error) {
	var p model.PathwayProgress
	err := r.DB.Where("step_id = ? AND user_id = ?", stepID, userID).First(&p).Error
	return &p, err
}

func (r *PathwayRepository) FindProgressForPathway(pathwayID, userID uint) ([]model.PathwayProgress, error) {
	var ps []model.PathwayProgress
	err := r.DB.
		Joins("JOIN pathway_steps ON pathway_steps.id = pathway_progress.step_id AND pathway_steps.deleted_at IS NULL").
		Where("pathway_steps.pathway_id = ? AND pathway_progress.user_id = ?", pathwayID, userID).
		Find(&ps).Error
	return ps, err
}

// CountCompletedSteps counts distinct completed steps of the pathway for the
// user.
func (r *PathwayRepository) CountCompletedSteps(pathwayID, userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PathwayProgress{}).
		Distinct("pathway_progress.step_id").
		Joins("JOIN pathway_steps ON pathway_steps.id = pathway_progress.step_id AND pathway_steps.deleted_at IS NULL").
		Where("pathway_steps.pathway_id = ? AND pathway_progress.user_id = ?", pathwayID, userID).
		Count(&count).Error
	return count, err
}

func (r *PathwayRepository) CreateProgress(p *model.PathwayProgress) error {
	return r.DB.Create(p).Error
}

func (r *PathwayRepository) CountEnrollmentsByStatus(churchID uint, status model.EnrollmentStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PathwayEnrollment{}).
		Joins("JOIN pathways ON pathways.id = pathway_enrollments.pathway_id").
		Where("pathways.church_id = ? AND pathway_enrollments.status = ?", churchID, status).
		Count(&count).Error
	return count, err
}
