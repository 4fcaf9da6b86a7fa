// Package session assembles the capture-to-transcript pipeline and manages
// its lifecycle.
//
// A Session merges frames from the configured capture adapters, feeds them
// through the segmentation engine, hands flushed segments to the stitcher
// and collects reconciled entries in a transcript log. It implements
// component.Component so it registers alongside the HTTP server and SSE hub:
//
//	s, err := session.New(cfg, adapters, session.WithTranscriptLog(tlog))
//	if err != nil {
//	    return err
//	}
//	registry.Register(s)
//
// Engine providers default to the whisper and pyannote sidecars plus the
// energy VAD gate, built through the provider managers from the session
// configuration. The With* options substitute any of them, which tests use
// to run the full pipeline against scripted providers.
package session
