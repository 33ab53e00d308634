package ingest

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/vidnote/pkg/core"
)

// notifier calls the observer inline, once per status, before polling continues.
// A panicking observer is logged and does not interrupt the submission.
type notifier struct {
	observer Observer
	logger   *slog.Logger
}

func (n notifier) send(task core.IngestionTask) {
	if n.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("progress observer panicked", "task", task.TaskID, "status", task.Status, "error", fmt.Errorf("%v", r))
		}
	}()
	n.observer(task)
}
