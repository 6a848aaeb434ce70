// Package ledger records served assignments. Rows go to the database; when
// the database rejects a write the row is queued as markdown on disk and
// replayed by FlushQueue on the next start.
package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"leadrouter/internal/campaign"
	"leadrouter/internal/database"
)

// Recorder writes assignment records for every surface.
type Recorder struct {
	db       database.Service
	queueDir string
	log      *zap.Logger
}

func NewRecorder(db database.Service, queueDir string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{db: db, queueDir: queueDir, log: logger}
}

// QueueDir is the directory holding queued records.
func (r *Recorder) QueueDir() string {
	return r.queueDir
}

// Record stores the assignment served to lead on surface. A failed database
// write falls back to the queue; the error is non-nil only when both fail.
func (r *Recorder) Record(ctx context.Context, lead campaign.Lead, result campaign.MatchResult, surface string) error {
	record := database.NewAssignmentRecord(lead, result, surface)
	if r.db != nil {
		err := r.db.RecordAssignment(ctx, &record)
		if err == nil {
			return nil
		}
		r.log.Warn("ledger write failed, queueing assignment",
			zap.String("surface", surface),
			zap.Error(err),
		)
	}

	if err := Enqueue(r.queueDir, record); err != nil {
		return fmt.Errorf("queue assignment in %q: %w", r.queueDir, err)
	}
	return nil
}

// FlushQueue replays queued records into the database.
func (r *Recorder) FlushQueue(ctx context.Context) (int, error) {
	if r.db == nil {
		return 0, nil
	}
	return Flush(ctx, r.db, r.queueDir)
}
