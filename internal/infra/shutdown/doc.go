// Package shutdown coordinates process termination and reload signals.
//
// SIGINT and SIGTERM (or a cancelled context, or Trigger) run the
// registered shutdown hooks in reverse order under one timeout.
// SIGHUP runs the reload callbacks and keeps waiting.
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("redis", srv.Shutdown)
//	h.OnReload(reloadConfig)
//	err := h.Wait(ctx)
package shutdown
