// Package sse streams transcript entries to connected clients over
// Server-Sent Events.
//
// The Hub routes events to clients by glob pattern on the client ID.
// Transcript clients register as "transcript:<id>" and receive every
// appended entry as a JSON event.
//
//	comp := sse.NewComponent("/transcript/events", tlog)
//	comp.Start(ctx)
//	router.GET("/transcript/events", func(c *gin.Context) {
//	    sse.ServeSSE(comp.Hub(), c.Writer, c.Request, "transcript:"+uuid.NewString())
//	})
package sse
