package service

import (
	"errors"

	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"

	"gorm.io/gorm"
)

// PathwayAdminService covers the authoring side of pathways. Admins create
// and edit pathways and their steps; the progress engine only reads them.
type PathwayAdminService struct {
	PathwayRepo *repository.PathwayRepository
}

func NewPathwayAdminService(pathwayRepo *repository.PathwayRepository) *PathwayAdminService {
	return &PathwayAdminService{PathwayRepo: pathwayRepo}
}

func (s *PathwayAdminService) CreatePathway(p *model.Pathway) error {
	return s.PathwayRepo.Create(p)
}

// GetPathway returns the pathway with its steps in program order.
func (s *PathwayAdminService) GetPathway(id, churchID uint) (*model.Pathway, error) {
	p, err := s.PathwayRepo.FindByIDInChurch(id, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathwayNotFound
		}
		return nil, err
	}
	steps, err := s.PathwayRepo.FindSteps(p.ID)
	if err != nil {
		return nil, err
	}
	p.Steps = steps
	return p, nil
}

func (s *PathwayAdminService) UpdatePathway(id, churchID uint, name, description string, active bool) (*model.Pathway, error) {
	p, err := s.PathwayRepo.FindByIDInChurch(id, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathwayNotFound
		}
		return nil, err
	}
	p.Name = name
	p.Description = description
	p.Active = active
	if err := s.PathwayRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PathwayAdminService) ListPathways(churchID uint, page, limit int) ([]model.Pathway, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.PathwayRepo.ListByChurch(churchID, page, limit)
}

// AddStep appends a step to a pathway the church owns.
func (s *PathwayAdminService) AddStep(pathwayID, churchID uint, step *model.PathwayStep) error {
	p, err := s.PathwayRepo.FindByIDInChurch(pathwayID, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPathwayNotFound
		}
		return err
	}
	step.PathwayID = p.ID
	return s.PathwayRepo.CreateStep(step)
}

func (s *PathwayAdminService) UpdateStep(stepID, churchID uint, name, description string, orderIndex int) (*model.PathwayStep, error) {
	step, err := s.stepInChurch(stepID, churchID)
	if err != nil {
		return nil, err
	}
	step.Name = name
	step.Description = description
	step.OrderIndex = orderIndex
	if err := s.PathwayRepo.UpdateStep(step); err != nil {
		return nil, err
	}
	return step, nil
}

// RemoveStep deletes a step. Progress rows pointing at the step are kept;
// completion checks count only steps that still exist.
func (s *PathwayAdminService) RemoveStep(stepID, churchID uint) error {
	step, err := s.stepInChurch(stepID, churchID)
	if err != nil {
		return err
	}
	return s.PathwayRepo.DeleteStep(step.ID)
}

// stepInChurch resolves a step and verifies its pathway belongs to the
// church, so tenants cannot edit each other's programs by step id.
func (s *PathwayAdminService) stepInChurch(stepID, churchID uint) (*model.PathwayStep, error) {
	step, err := s.PathwayRepo.FindStepByID(stepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}
	if _, err := s.PathwayRepo.FindByIDInChurch(step.PathwayID, churchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}
	return step, nil
}
