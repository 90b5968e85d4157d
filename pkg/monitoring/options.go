package monitoring

import "time"

// Option configures a Facade.
type Option func(*options)

type options struct {
	taskID string
	now    func() time.Time
}

// WithTaskID sets the task_id resource label. Empty values are ignored.
func WithTaskID(taskID string) Option {
	return func(o *options) {
		if taskID != "" {
			o.taskID = taskID
		}
	}
}

// WithClock sets the time source used for metric timestamps and stopwatches.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
