package ingest

import (
	"context"

	"github.com/aretw0/vidnote/pkg/core"
)

// Provider is the capability surface of a remote video-understanding service.
// Implementations translate provider-specific statuses into core.TaskStatus.
type Provider interface {
	// CreateIndex creates an isolated workspace and returns its id.
	CreateIndex(ctx context.Context, name string) (string, error)

	// SubmitURL registers an external video URL against the index and returns a task id.
	SubmitURL(ctx context.Context, indexID, videoURL string) (string, error)

	// TaskStatus fetches the current state of a task. AssetID is set once it is ready.
	TaskStatus(ctx context.Context, taskID string) (core.IngestionTask, error)

	// GenerateText runs prompt against a processed asset.
	GenerateText(ctx context.Context, assetID, prompt string) (string, error)
}

// Observer is notified with the task state after every poll.
type Observer func(core.IngestionTask)
