// Package pipeline provides composable, pull-based stream operators.
//
// Pipelines are lazy. No work happens until values are pulled via Collect,
// Drain, or ForEach. Each stage pulls from the previous stage on demand,
// giving natural backpressure without explicit flow control.
//
// The capture layer builds its frame stream on these operators: FromChan
// lifts each adapter's frame channel into a pipeline, Recover isolates a
// failing source so the other keeps flowing, and Merge interleaves both
// sources into the single stream the segmentation engine drains.
//
// # Operators
//
// Synchronous (single-goroutine):
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value (logging, metrics)
//   - Recover: absorb a source error instead of propagating it
//
// Concurrent (multi-goroutine):
//
//   - Buffer: decouple producer/consumer with a buffered channel
//   - Merge: combine multiple pipelines concurrently (order NOT preserved)
//
// # Usage
//
//	local := pipeline.FromChan(micFrames)
//	remote := pipeline.FromChan(systemFrames)
//	merged := pipeline.Merge(
//	    pipeline.Recover(local, onSourceFault),
//	    pipeline.Recover(remote, onSourceFault),
//	)
//	pipeline.Drain(merged, engine.Process).Run(ctx)
package pipeline
