package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrNotPrioritizable  = errors.New("item type does not support priority")
	ErrNotSyncable       = errors.New("item type does not support relation sync")
	ErrNoSuggestions     = errors.New("no suggestions produced")
	ErrExportFailed      = errors.New("export failed")
	ErrUnsafeInput       = errors.New("input rejected by safety screen")
	ErrGenerationRunning = errors.New("suggestion generation already in progress")
)
