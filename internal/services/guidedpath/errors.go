package guidedpath

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAdminRequired        = errors.New("admin role required")
	ErrModuleNotFound       = errors.New("module not found")
	ErrModuleInactive       = errors.New("module inactive")
	ErrModuleNoSteps        = errors.New("module has no steps")
	ErrGlobalModuleReadOnly = errors.New("cannot edit global modules")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionCompleted     = errors.New("session already completed")
	ErrSessionAbandoned     = errors.New("session abandoned")
	ErrNoMoreSteps          = errors.New("no more steps")
	ErrStepMismatch         = errors.New("step_index does not match current step")
	ErrConcurrentAdvance    = errors.New("session was advanced concurrently")
	ErrInvalidStressBand    = errors.New("stress_band must be one of low, moderate, high, crisis")
	ErrInvalidRating        = errors.New("rating must be an integer between 0 and 10")
	ErrInvalidAvailableTime = errors.New("available_time must be positive")
	ErrResponseTooLong      = errors.New("response too long")
	ErrInvalidBlueprint     = errors.New("invalid module blueprint")
	ErrRoleProfileExists    = errors.New("role profile already exists")
	ErrRoleProfileNotFound  = errors.New("role profile not found")
)
