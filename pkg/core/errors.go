package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrValidation   = errors.New("validation failed")
	ErrIngestion    = errors.New("ingestion failed")
	ErrNotFound     = errors.New("note not found")
	ErrPersistence  = errors.New("persistence failed")
	ErrTimeout      = errors.New("ingestion timed out")
	ErrConfirmation = errors.New("clear confirmation rejected")
	ErrReadOnly     = errors.New("note store is in read-only mode")
)

// IngestionError reports a submission that did not produce analysis text.
// It matches ErrIngestion with errors.Is.
type IngestionError struct {
	TaskID         string
	Status         TaskStatus
	ProviderStatus string
	Err            error
}

func (e *IngestionError) Error() string {
	switch {
	case e.Err != nil && e.TaskID != "":
		return fmt.Sprintf("ingestion of task %s failed: %v", e.TaskID, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("ingestion failed: %v", e.Err)
	case e.ProviderStatus != "":
		return fmt.Sprintf("video processing failed with status %s", e.ProviderStatus)
	default:
		return fmt.Sprintf("video processing failed with status %s", e.Status)
	}
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

func (e *IngestionError) Is(target error) bool {
	return target == ErrIngestion
}
