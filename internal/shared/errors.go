package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrMissingHistory = fmt.Errorf("run history is disabled (database.path is empty)")
	ErrRunNotFound    = fmt.Errorf("run not found")

	// Pipeline errors
	ErrMissingInput   = fmt.Errorf("input file could not be loaded")
	ErrMissingColumn  = fmt.Errorf("required column missing")
	ErrNothingToWrite = fmt.Errorf("no worksheets to write")

	// Cover fetch errors
	ErrFetchFailed    = fmt.Errorf("cover request failed")
	ErrCoverNotFound  = fmt.Errorf("cover image not found")
	ErrEmptyCoverLink = fmt.Errorf("empty catalog link")

	// Input validation errors
	ErrInvalidDateFormat = fmt.Errorf("date must be 6 digits (YYMMDD)")
	ErrInvalidDate       = fmt.Errorf("invalid calendar date")
	ErrCancelled         = fmt.Errorf("input cancelled")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
)
