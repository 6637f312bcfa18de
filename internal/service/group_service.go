package service

import (
	"errors"
	"time"

	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"

	"gorm.io/gorm"
)

type GroupService struct {
	GroupRepo *repository.GroupRepository
}

func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{GroupRepo: groupRepo}
}

func (s *GroupService) Create(group *model.LifeGroup) error {
	return s.GroupRepo.Create(group)
}

func (s *GroupService) Get(id, churchID uint) (*model.LifeGroup, error) {
	group, err := s.GroupRepo.FindInChurch(id, churchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Update(group *model.LifeGroup) error {
	return s.GroupRepo.Update(group)
}

func (s *GroupService) Delete(id, churchID uint) error {
	if _, err := s.Get(id, churchID); err != nil {
		return err
	}
	return s.GroupRepo.Delete(id)
}

func (s *GroupService) List(churchID uint, page, limit int) ([]model.LifeGroup, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.GroupRepo.ListByChurch(churchID, page, limit)
}

func (s *GroupService) MyGroups(userID uint) ([]model.LifeGroup, error) {
	return s.GroupRepo.ListByUser(userID)
}

// Join adds the user to the group. Re-joining while active is a no-op; a
// member who left can join again, which reactivates the old row.
func (s *GroupService) Join(groupID, userID, churchID uint) (*model.GroupMembership, error) {
	group, err := s.Get(groupID, churchID)
	if err != nil {
		return nil, err
	}

	membership, err := s.GroupRepo.FindMembership(groupID, userID)
	if err == nil {
		if membership.Status == model.MembershipActive {
			return membership, nil
		}
		if err := s.checkCapacity(group); err != nil {
			return nil, err
		}
		membership.Status = model.MembershipActive
		membership.JoinedAt = time.Now()
		membership.LeftAt = nil
		if err := s.GroupRepo.UpdateMembership(membership); err != nil {
			return nil, err
		}
		return membership, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.checkCapacity(group); err != nil {
		return nil, err
	}

	membership = &model.GroupMembership{
		GroupID:  groupID,
		UserID:   userID,
		Status:   model.MembershipActive,
		JoinedAt: time.Now(),
	}
	if err := s.GroupRepo.CreateMembership(membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *GroupService) checkCapacity(group *model.LifeGroup) error {
	if group.Capacity <= 0 {
		return nil
	}
	count, err := s.GroupRepo.CountActiveMembers(group.ID)
	if err != nil {
		return err
	}
	if count >= int64(group.Capacity) {
		return util.ErrGroupFull
	}
	return nil
}

func (s *GroupService) Leave(groupID, userID, churchID uint) error {
	if _, err := s.Get(groupID, churchID); err != nil {
		return err
	}

	membership, err := s.GroupRepo.FindMembership(groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if membership.Status == model.MembershipLeft {
		return nil
	}

	now := time.Now()
	membership.Status = model.MembershipLeft
	membership.LeftAt = &now
	return s.GroupRepo.UpdateMembership(membership)
}

func (s *GroupService) Roster(groupID, churchID uint) ([]model.User, error) {
	if _, err := s.Get(groupID, churchID); err != nil {
		return nil, err
	}
	return s.GroupRepo.Roster(groupID)
}
