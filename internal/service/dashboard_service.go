package service

import (
	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	EventService *EventService
	GroupService *GroupService
	Pathway      *PathwayService
	Announcement *AnnouncementService
	PathwayRepo  *repository.PathwayRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	eventService *EventService,
	groupService *GroupService,
	pathway *PathwayService,
	announcement *AnnouncementService,
	pathwayRepo *repository.PathwayRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		EventService: eventService,
		GroupService: groupService,
		Pathway:      pathway,
		Announcement: announcement,
		PathwayRepo:  pathwayRepo,
	}
}

type Dashboard struct {
	UpcomingEvents []model.Event            `json:"upcomingEvents"`
	MyGroups       []model.LifeGroup        `json:"myGroups"`
	Pathways       []PathwayProgressSummary `json:"pathways"`
	Announcements  []model.Announcement     `json:"announcements"`
}

// GetDashboard assembles a member's home feed.
func (s *DashboardService) GetDashboard(userID, churchID uint) (*Dashboard, error) {
	events, _, err := s.EventService.ListUpcoming(churchID, 1, 5)
	if err != nil {
		return nil, err
	}

	groups, err := s.GroupService.MyGroups(userID)
	if err != nil {
		return nil, err
	}

	pathways, err := s.Pathway.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}

	announcements, err := s.Announcement.Feed(churchID)
	if err != nil {
		return nil, err
	}
	if len(announcements) > 5 {
		announcements = announcements[:5]
	}

	return &Dashboard{
		UpcomingEvents: events,
		MyGroups:       groups,
		Pathways:       pathways,
		Announcements:  announcements,
	}, nil
}

type ChurchStats struct {
	Members           int64 `json:"members"`
	ActiveEnrollments int64 `json:"activeEnrollments"`
	CompletedPathways int64 `json:"completedPathways"`
}

// GetChurchStats backs the admin overview.
func (s *DashboardService) GetChurchStats(churchID uint) (*ChurchStats, error) {
	members, err := s.UserRepo.CountByChurch(churchID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.PathwayRepo.CountEnrollmentsByStatus(churchID, model.EnrollmentEnrolled)
	if err != nil {
		return nil, err
	}
	completed, err := s.PathwayRepo.CountEnrollmentsByStatus(churchID, model.EnrollmentCompleted)
	if err != nil {
		return nil, err
	}

	return &ChurchStats{
		Members:           members,
		ActiveEnrollments: enrolled,
		CompletedPathways: completed,
	}, nil
}
