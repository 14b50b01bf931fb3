package cruxlib

import "errors"

var (
	ErrInvalidComponent = errors.New("component is missing its public-key hash, version or installer")
	ErrComponentUnknown = errors.New("component you are trying to check is not registered")
	ErrCheckInProgress  = errors.New("component is already being checked or updated")
	ErrCheckTooSoon     = errors.New("component was checked too recently")

	ErrServiceStopped = errors.New("update service has been stopped")
)
