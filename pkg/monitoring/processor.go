package monitoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agentstation/catalogsync/pkg/logging"
)

// Processor reports run metrics. A disabled processor does nothing.
type Processor struct {
	facade  *Facade
	enabled bool
	now     func() time.Time
	start   time.Time
}

// NewProcessor creates a processor. When enabled, the metric descriptors are
// created and the stopwatch is started.
func NewProcessor(ctx context.Context, facade *Facade, enabled bool) (*Processor, error) {
	p := &Processor{facade: facade, enabled: enabled && facade != nil, now: time.Now}
	if !p.enabled {
		return p, nil
	}
	p.now = facade.now
	if err := facade.CreateMetrics(ctx); err != nil {
		return nil, err
	}
	p.start = p.now()
	logging.FromContext(ctx).Debug().Str("task_id", facade.TaskID()).Msg("Monitoring enabled")
	return p, nil
}

// Enabled reports whether metrics are written.
func (p *Processor) Enabled() bool {
	return p.enabled
}

// ResetStartTime restarts the stopwatch.
func (p *Processor) ResetStartTime() {
	if p.enabled {
		p.start = p.now()
	}
}

// ProcessElapsedTimeMetric writes the milliseconds since the stopwatch started.
func (p *Processor) ProcessElapsedTimeMetric(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	elapsed := p.now().Sub(p.start).Milliseconds()
	return p.facade.WriteElapsedTimeMetric(ctx, float64(elapsed))
}

// ProcessEntriesLengthMetric writes the number of entries.
func (p *Processor) ProcessEntriesLengthMetric(ctx context.Context, n int) error {
	if !p.enabled {
		return nil
	}
	return p.facade.WriteEntriesLengthMetric(ctx, float64(n))
}

// ProcessMetadataPayloadBytesMetric writes the JSON encoded size of metadata.
func (p *Processor) ProcessMetadataPayloadBytesMetric(ctx context.Context, metadata any) error {
	if !p.enabled {
		return nil
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return p.facade.WriteMetadataPayloadBytesMetric(ctx, float64(len(payload)))
}
