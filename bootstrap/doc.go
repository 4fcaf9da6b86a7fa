// Package bootstrap orchestrates the application lifecycle: typed
// configuration validation, logger initialization, component start/stop
// ordering, lifecycle hooks and graceful shutdown on OS signals.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterComponent(sess)
//	app.RegisterComponent(srv)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Components start in registration order and stop in reverse, so the capture
// session registers before the HTTP server that exposes its transcript.
package bootstrap
