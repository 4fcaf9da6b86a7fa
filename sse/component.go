package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/livescribe/component"
	"github.com/kbukum/livescribe/transcript"
)

// Component wraps an SSE Hub as a lifecycle-managed component.
// It subscribes to a transcript log and broadcasts every appended entry
// to connected transcript clients.
type Component struct {
	hub  *Hub
	wg   sync.WaitGroup
	mu   sync.Mutex
	path string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates an SSE component with a fresh Hub. If tlog is
// non-nil, appended entries are broadcast to TranscriptPattern clients.
func NewComponent(path string, tlog *transcript.Log) *Component {
	c := &Component{
		hub:  NewHub(),
		path: path,
	}
	if tlog != nil {
		tlog.Subscribe(func(e transcript.Entry) {
			c.hub.BroadcastToPattern(TranscriptPattern, EncodeEntry(e))
		})
	}
	return c
}

// Hub returns the underlying Hub for event broadcasting and client management.
func (c *Component) Hub() *Hub { return c.hub }

// NotifyCleared broadcasts the transcript-cleared event to all clients.
func (c *Component) NotifyCleared() {
	c.hub.BroadcastToPattern(TranscriptPattern, EncodeCleared())
}

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start launches the Hub's event loop in a background goroutine.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()

	return nil
}

// Stop signals the Hub to shut down and waits for Run to return.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hub.Stop()
	c.wg.Wait()
	return nil
}

// Health returns the health status of the SSE hub.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.GetClientCount()),
	}
}

// Describe returns summary info for the startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("Path: %s", c.path),
	}
}
