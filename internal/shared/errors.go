package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and archive errors
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrDecode       = fmt.Errorf("failed to decode response")
	ErrTuneNotFound = fmt.Errorf("tune not found")
	ErrRunNotFound  = fmt.Errorf("run not found")

	// Persistence errors
	ErrCheckpoint = fmt.Errorf("checkpoint failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
