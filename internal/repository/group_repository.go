package repository

import (
	"drouple_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.LifeGroup) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindInChurch(id, churchID uint) (*model.LifeGroup, error) {
	var g model.LifeGroup
	err := r.DB.Where("id = ? AND church_id = ?", id, churchID).First(&g).Error
	return &g, err
}

func (r *GroupRepository) Update(group *model.LifeGroup) error {
	return r.DB.Save(group).Error
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Delete(&model.LifeGroup{}, id).Error
}

func (r *GroupRepository) ListByChurch(churchID uint, page, limit int) ([]model.LifeGroup, int64, error) {
	var gs []model.LifeGroup
	var total int64
	query := r.DB.Model(&model.LifeGroup{}).Where("church_id = ?", churchID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&gs).Error
	return gs, total, err
}

func (r *GroupRepository) ListByUser(userID uint) ([]model.LifeGroup, error) {
	var gs []model.LifeGroup
	err := r.DB.
		Joins("JOIN group_memberships ON group_memberships.group_id = life_groups.id").
		Where("group_memberships.user_id = ? AND group_memberships.status = ?", userID, model.MembershipActive).
		Find(&gs).Error
	return gs, err
}

func (r *GroupRepository) FindMembership(groupID, userID uint) (*model.GroupMembership, error) {
	var m model.GroupMembership
	err := r.DB.Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error
	return &m, err
}

func (r *GroupRepository) CreateMembership(m *model.GroupMembership) error {
	return r.DB.Create(m).Error
}

func (r *GroupRepository) UpdateMembership(m *model.GroupMembership) error {
	return r.DB.Save(m).Error
}

func (r *GroupRepository) CountActiveMembers(groupID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.GroupMembership{}).
		Where("group_id = ? AND status = ?", groupID, model.MembershipActive).
		Count(&count).Error
	return count, err
}

// Roster returns the active members of a group.
func (r *GroupRepository) Roster(groupID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("JOIN group_memberships ON group_memberships.user_id = users.id").
		Where("group_memberships.group_id = ? AND group_memberships.status = ?", groupID, model.MembershipActive).
		Order("users.name asc").
		Find(&users).Error
	return users, err
}
