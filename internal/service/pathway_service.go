package service

import (
	"errors"
	"math"
	"time"

	"drouple_backend/internal/model"
	"drouple_backend/internal/util"
	"drouple_backend/pkg/logger"
	"drouple_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Name and description of the lazily created foundation pathway.
const (
	DefaultFoundationName        = "ROOTS"
	DefaultFoundationDescription = "Foundational discipleship pathway for new believers."
)

// PathwayStore is the persistence surface the progress engine runs against.
// The GORM PathwayRepository implements it; tests substitute an in-memory
// fake. Lookups that miss return gorm.ErrRecordNotFound.
type PathwayStore interface {
	FindByID(id uint) (*model.Pathway, error)
	FindActiveByIDInChurch(id, churchID uint) (*model.Pathway, error)
	FindDefaultByType(churchID uint, ptype model.PathwayType) (*model.Pathway, error)
	Create(pathway *model.Pathway) error
	FindStepByID(id uint) (*model.PathwayStep, error)
	FindSteps(pathwayID uint) ([]model.PathwayStep, error)
	CountSteps(pathwayID uint) (int64, error)
	FindEnrollment(pathwayID, userID uint) (*model.PathwayEnrollment, error)
	FindEnrolled(pathwayID, userID uint) (*model.PathwayEnrollment, error)
	FindEnrollmentsByUser(userID uint) ([]model.PathwayEnrollment, error)
	CreateEnrollment(e *model.PathwayEnrollment) error
	UpdateEnrollment(e *model.PathwayEnrollment) error
	FindProgress(stepID, userID uint) (*model.PathwayProgress, error)
	FindProgressForPathway(pathwayID, userID uint) ([]model.PathwayProgress, error)
	CountCompletedSteps(pathwayID, userID uint) (int64, error)
	CreateProgress(p *model.PathwayProgress) error
}

// MemberStore resolves users for the auto-enrollment trigger.
type MemberStore interface {
	FindByID(id uint) (*model.User, error)
}

// PathwayService owns enrollment creation, step-completion recording and the
// automatic enrolled -> completed transition. Every operation is idempotent:
// web handlers call them directly and the mobile sync layer replays queued
// actions through the same paths.
type PathwayService struct {
	Pathways PathwayStore
	Users    MemberStore
}

func NewPathwayService(pathways PathwayStore, users MemberStore) *PathwayService {
	return &PathwayService{
		Pathways: pathways,
		Users:    users,
	}
}

// Enroll enrolls the user in an active pathway of their church. A second
// call with the same arguments returns the first call's enrollment
// unchanged. Pathways of other churches are reported as not found.
func (s *PathwayService) Enroll(userID, pathwayID, churchID uint) (*model.PathwayEnrollment, error) {
	pathway, err := s.Pathways.FindActiveByIDInChurch(pathwayID, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathwayNotFound
		}
		return nil, err
	}

	return s.enroll(userID, pathway)
}

// AutoEnrollNewBeliever enrolls a flagged new believer into their church's
// foundation pathway, creating the pathway on first demand. Users without
// the flag or without a church are skipped with a (nil, nil) result; callers
// may invoke this on every check-in or login without side effects.
func (s *PathwayService) AutoEnrollNewBeliever(userID uint) (*model.PathwayEnrollment, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if !user.NewBeliever || user.ChurchID == 0 {
		return nil, nil
	}

	pathway, err := s.Pathways.FindDefaultByType(user.ChurchID, model.PathwayFoundation)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Two concurrent first-time callers can both land here and create
		// two foundation pathways; selection stays stable because reads
		// always take the oldest active one.
		pathway = &model.Pathway{
			ChurchID:    user.ChurchID,
			Type:        model.PathwayFoundation,
			Name:        DefaultFoundationName,
			Description: DefaultFoundationDescription,
			Active:      true,
		}
		if err := s.Pathways.Create(pathway); err != nil {
			return nil, err
		}
		logger.Log.Info("created default foundation pathway",
			zap.Uint("churchId", user.ChurchID),
			zap.Uint("pathwayId", pathway.ID))
	}

	return s.enroll(userID, pathway)
}

func (s *PathwayService) enroll(userID uint, pathway *model.Pathway) (*model.PathwayEnrollment, error) {
	existing, err := s.Pathways.FindEnrollment(pathway.ID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.PathwayEnrollment{
		PathwayID:  pathway.ID,
		UserID:     userID,
		Status:     model.EnrollmentEnrolled,
		EnrolledAt: time.Now(),
	}
	if err := s.Pathways.CreateEnrollment(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CompleteStep records that the user finished a step, optionally attributed
// to a verifying leader. Repeat calls return the existing progress record.
// When the last remaining step completes, the user's enrolled enrollment
// transitions to completed; a missing enrolled row (dropped, never enrolled,
// or already completed) skips the transition silently.
//
// Steps are resolved through their owning pathway's church; a step that
// belongs to another church is reported as not found.
//
// The progress write and the completion check are two sequential store
// round-trips, not one atomic operation: a drop racing in between can leave
// the step recorded against an already-dropped enrollment.
func (s *PathwayService) CompleteStep(stepID, userID, churchID uint, completedBy *uint, notes string) (*model.PathwayProgress, error) {
	step, err := s.Pathways.FindStepByID(stepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}

	pathway, err := s.Pathways.FindByID(step.PathwayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}
	if pathway.ChurchID != churchID {
		return nil, util.ErrStepNotFound
	}

	existing, err := s.Pathways.FindProgress(stepID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress := &model.PathwayProgress{
		StepID:      stepID,
		UserID:      userID,
		CompletedBy: completedBy,
		Notes:       notes,
		CompletedAt: time.Now(),
	}
	if err := s.Pathways.CreateProgress(progress); err != nil {
		// The unique (step,user) index means a concurrent call already
		// recorded this completion; return its row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Pathways.FindProgress(stepID, userID)
		}
		return nil, err
	}

	complete, err := s.IsPathwayComplete(step.PathwayID, userID)
	if err != nil {
		return nil, err
	}
	if complete {
		if err := s.completeEnrollment(step.PathwayID, userID); err != nil {
			return nil, err
		}
	}

	return progress, nil
}

func (s *PathwayService) completeEnrollment(pathwayID, userID uint) error {
	enrollment, err := s.Pathways.FindEnrolled(pathwayID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	now := time.Now()
	enrollment.Status = model.EnrollmentCompleted
	enrollment.CompletedAt = &now
	if err := s.Pathways.UpdateEnrollment(enrollment); err != nil {
		return err
	}

	ptype := string(model.PathwayFoundation)
	if pathway, err := s.Pathways.FindByID(pathwayID); err == nil {
		ptype = string(pathway.Type)
	}
	monitoring.PathwayCompletionCounter.WithLabelValues(ptype).Inc()

	logger.Log.Info("pathway completed",
		zap.Uint("pathwayId", pathwayID),
		zap.Uint("userId", userID))
	return nil
}

// IsPathwayComplete reports whether the user has completed every step of the
// pathway. A pathway with zero steps is vacuously complete for every user.
func (s *PathwayService) IsPathwayComplete(pathwayID, userID uint) (bool, error) {
	total, err := s.Pathways.CountSteps(pathwayID)
	if err != nil {
		return false, err
	}
	done, err := s.Pathways.CountCompletedSteps(pathwayID, userID)
	if err != nil {
		return false, err
	}
	return done == total, nil
}

// Drop marks the user's enrolled enrollment as dropped. Completed and
// dropped enrollments stay as they are.
func (s *PathwayService) Drop(pathwayID, userID uint) (*model.PathwayEnrollment, error) {
	enrollment, err := s.Pathways.FindEnrolled(pathwayID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	now := time.Now()
	enrollment.Status = model.EnrollmentDropped
	enrollment.DroppedAt = &now
	if err := s.Pathways.UpdateEnrollment(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

type StepProgress struct {
	Step        model.PathwayStep `json:"step"`
	Completed   bool              `json:"completed"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

type PathwayProgressSummary struct {
	Pathway        model.Pathway          `json:"pathway"`
	Status         model.EnrollmentStatus `json:"status"`
	EnrolledAt     time.Time              `json:"enrolledAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	Steps          []StepProgress         `json:"steps"`
	CompletedSteps int                    `json:"completedSteps"`
	TotalSteps     int                    `json:"totalSteps"`
	Percent        int                    `json:"percent"`
}

// GetUserProgress reports every enrollment the user holds with the
// pathway's steps in order, each annotated with completion state, and an
// overall percentage. A pathway without steps reports 0%.
func (s *PathwayService) GetUserProgress(userID uint) ([]PathwayProgressSummary, error) {
	enrollments, err := s.Pathways.FindEnrollmentsByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]PathwayProgressSummary, 0, len(enrollments))
	for _, enrollment := range enrollments {
		pathway, err := s.Pathways.FindByID(enrollment.PathwayID)
		if err != nil {
			return nil, err
		}

		steps, err := s.Pathways.FindSteps(pathway.ID)
		if err != nil {
			return nil, err
		}

		records, err := s.Pathways.FindProgressForPathway(pathway.ID, userID)
		if err != nil {
			return nil, err
		}
		completedAt := make(map[uint]time.Time, len(records))
		for _, rec := range records {
			completedAt[rec.StepID] = rec.CompletedAt
		}

		summary := PathwayProgressSummary{
			Pathway:     *pathway,
			Status:      enrollment.Status,
			EnrolledAt:  enrollment.EnrolledAt,
			CompletedAt: enrollment.CompletedAt,
			Steps:       make([]StepProgress, 0, len(steps)),
			TotalSteps:  len(steps),
		}
		for _, step := range steps {
			sp := StepProgress{Step: step}
			if at, ok := completedAt[step.ID]; ok {
				sp.Completed = true
				t := at
				sp.CompletedAt = &t
				summary.CompletedSteps++
			}
			summary.Steps = append(summary.Steps, sp)
		}
		if summary.TotalSteps > 0 {
			summary.Percent = int(math.Round(100 * float64(summary.CompletedSteps) / float64(summary.TotalSteps)))
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
