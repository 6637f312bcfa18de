package service

import (
	"errors"

	"drouple_backend/internal/model"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/util"

	"gorm.io/gorm"
)

type MemberService struct {
	UserRepo *repository.UserRepository
}

func NewMemberService(userRepo *repository.UserRepository) *MemberService {
	return &MemberService{UserRepo: userRepo}
}

// Directory lists the members of one church; search matches name or email.
func (s *MemberService) Directory(churchID uint, search string, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.FindByChurch(churchID, search, page, limit)
}

// GetMemberInChurch resolves a member only within the caller's church.
func (s *MemberService) GetMemberInChurch(id, churchID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.ChurchID != churchID {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s *MemberService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	user.Phone = update.Phone

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MemberService) UpdateAvatar(userID uint, url string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}
	user.Avatar = url
	return s.UserRepo.Update(user)
}

func (s *MemberService) SetDisabled(id, churchID uint, disabled bool) error {
	if _, err := s.GetMemberInChurch(id, churchID); err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(id, disabled)
}
