package capture

import (
	"context"
	"sync"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/errors"
	"github.com/kbukum/livescribe/logger"
	"github.com/kbukum/livescribe/pipeline"
)

// FaultFunc is called once per adapter that terminates with an error.
type FaultFunc func(adapter string, err error)

// Merger interleaves frames from multiple capture adapters into one stream.
//
// Frames are yielded in channel-arrival order with no cross-source ordering
// guarantee beyond that. When an adapter faults, the fault is reported via
// the FaultFunc and the remaining adapters keep flowing. The merged stream
// ends when every adapter's channel has closed.
type Merger struct {
	adapters []Adapter
	onFault  FaultFunc
	log      *logger.Logger

	stopOnce sync.Once
	stopErr  error
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithFaultFunc sets the callback invoked when an adapter terminates
// abnormally.
func WithFaultFunc(fn FaultFunc) MergerOption {
	return func(m *Merger) { m.onFault = fn }
}

// NewMerger creates a merger over the given adapters.
func NewMerger(adapters []Adapter, opts ...MergerOption) *Merger {
	m := &Merger{
		adapters: adapters,
		log:      logger.Get("capture"),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start begins capture on every adapter and returns the merged frame
// pipeline. If any adapter fails to start, the ones already started are
// stopped and the start error is returned.
func (m *Merger) Start(ctx context.Context) (*pipeline.Pipeline[audio.Frame], error) {
	sources := make([]*pipeline.Pipeline[audio.Frame], 0, len(m.adapters))
	for i, a := range m.adapters {
		ch, err := a.Start(ctx)
		if err != nil {
			for _, started := range m.adapters[:i] {
				_ = started.Stop()
			}
			return nil, errors.CaptureFailed(a.Name(), err)
		}
		m.log.Info("capture adapter started", logger.Fields(
			logger.FieldComponent, a.Name(),
			logger.FieldSource, string(a.Source()),
		))
		sources = append(sources, m.sourcePipeline(a, ch))
	}
	return pipeline.Merge(sources...), nil
}

// sourcePipeline lifts one adapter's channel into a fault-isolated pipeline.
// The iterator surfaces the adapter's terminal fault as a stream error so
// Recover can absorb it and notify the fault callback.
func (m *Merger) sourcePipeline(a Adapter, ch <-chan audio.Frame) *pipeline.Pipeline[audio.Frame] {
	src := pipeline.FromFunc(func(_ context.Context) pipeline.Iterator[audio.Frame] {
		return &adapterIter{adapter: a, ch: ch}
	})
	return pipeline.Recover(src, func(err error) {
		m.log.WithError(err).Error("capture adapter faulted", logger.Fields(
			logger.FieldComponent, a.Name(),
			logger.FieldSource, string(a.Source()),
		))
		if m.onFault != nil {
			m.onFault(a.Name(), err)
		}
	})
}

// Stop terminates every adapter. Idempotent; the first call's result is
// returned on every subsequent call.
func (m *Merger) Stop() error {
	m.stopOnce.Do(func() {
		for _, a := range m.adapters {
			if err := a.Stop(); err != nil && m.stopErr == nil {
				m.stopErr = err
			}
		}
	})
	return m.stopErr
}

// adapterIter reads one adapter's frame channel. When the channel closes it
// checks the adapter for a terminal fault and reports it as a stream error.
type adapterIter struct {
	adapter Adapter
	ch      <-chan audio.Frame
}

func (it *adapterIter) Next(ctx context.Context) (audio.Frame, bool, error) {
	select {
	case f, open := <-it.ch:
		if !open {
			if err := it.adapter.Err(); err != nil {
				return audio.Frame{}, false, err
			}
			return audio.Frame{}, false, nil
		}
		return f, true, nil
	case <-ctx.Done():
		return audio.Frame{}, false, ctx.Err()
	}
}

func (it *adapterIter) Close() error { return nil }
