package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

var (
	keyJobID     contextKey = "job_id"
	keyOwnerID   contextKey = "owner_id"
	keyStartTime contextKey = "job_start_time"
)

// jobTimeout bounds one upload pipeline end to end: two provider calls
// plus the storage write.
const jobTimeout = 5 * time.Minute

// Begin creates the context for one upload job. It derives from
// context.Background(), not the request context: if the uploading client
// disconnects, the job still runs to completion or failure server-side.
func Begin(ownerID int64) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)

	ctx = context.WithValue(ctx, keyJobID, uuid.New())
	ctx = context.WithValue(ctx, keyOwnerID, ownerID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// JobID extracts the job id from context
func JobID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyJobID).(uuid.UUID)
	return id, ok
}

// OwnerID extracts the owner id from context
func OwnerID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(keyOwnerID).(int64)
	return id, ok
}

// Elapsed reports how long the job has been running
func Elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
