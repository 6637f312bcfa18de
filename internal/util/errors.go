package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrChurchNotFound       = errors.New("church not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrPathwayNotFound      = errors.New("pathway not found")
	ErrStepNotFound         = errors.New("pathway step not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrGroupNotFound        = errors.New("life group not found")
	ErrGroupFull            = errors.New("life group is full")
	ErrEventNotFound        = errors.New("event not found")
	ErrEventFull            = errors.New("event is at capacity")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)
