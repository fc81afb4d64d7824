package transform

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultApplyDelay is the minimum time a full transform takes to apply.
const DefaultApplyDelay = 10 * time.Second

// EventSink receives every recorded payload. Implementations must be safe for concurrent use.
type EventSink interface {
	PublishTransform(ctx context.Context, kind Kind, payload any) error
}

type PayloadObserver interface {
	ObservePayload(kind string)
}

// Recorder logs received transform payloads and forwards them to an EventSink.
// It keeps no history between calls.
type Recorder struct {
	logger   *zap.Logger
	sink     EventSink
	observer PayloadObserver
	delay    time.Duration
}

type Option func(*Recorder)

// WithApplyDelay sets the latency floor for Apply. Negative values are treated as zero.
func WithApplyDelay(d time.Duration) Option {
	return func(r *Recorder) {
		if d < 0 {
			d = 0
		}
		r.delay = d
	}
}

func WithEventSink(sink EventSink) Option {
	return func(r *Recorder) { r.sink = sink }
}

func WithObserver(o PayloadObserver) Option {
	return func(r *Recorder) { r.observer = o }
}

func NewRecorder(logger *zap.Logger, opts ...Option) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		logger: logger.With(zap.String("component", "transform")),
		delay:  DefaultApplyDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) Delay() time.Duration { return r.delay }

// Record logs a single vector payload (translation, rotation or scale).
func (r *Recorder) Record(ctx context.Context, kind Kind, v Vector3) {
	r.logger.Info("transform_received",
		zap.String("kind", string(kind)),
		zap.Float64s("values", v[:]),
	)
	r.forward(ctx, kind, v)
}

// Apply waits for the configured delay and then records t. It never returns nil before
// the delay has elapsed; if ctx ends first the payload is dropped and ctx.Err() returned.
func (r *Recorder) Apply(ctx context.Context, t Transform) error {
	if err := t.Validate(); err != nil {
		return err
	}

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		r.logger.Warn("transform_abandoned", zap.Error(ctx.Err()))
		return ctx.Err()
	}

	r.logger.Info("transform_received",
		zap.String("kind", string(KindTransform)),
		zap.Float64s("position", t.Position[:]),
		zap.Float64s("rotation", t.Rotation[:]),
		zap.Float64s("scale", t.Scale[:]),
	)
	r.forward(ctx, KindTransform, t)
	return nil
}

func (r *Recorder) forward(ctx context.Context, kind Kind, payload any) {
	if r.observer != nil {
		r.observer.ObservePayload(string(kind))
	}
	if r.sink == nil {
		return
	}
	if err := r.sink.PublishTransform(ctx, kind, payload); err != nil {
		r.logger.Warn("transform_publish_failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
