package driver

import "errors"

var (
	ErrInvalidDriverName   = errors.New("invalid driver name")
	ErrInvalidDriverEmail  = errors.New("invalid driver email")
	ErrInvalidDriverPhone  = errors.New("invalid driver phone")
	ErrInvalidDriverRating = errors.New("invalid driver rating")
	ErrInvalidDriverStatus = errors.New("invalid driver status")
)
