// Package logger builds the application's zap logger.
//
// New turns a Config (level and json/console encoding) into a *zap.Logger.
// Two helpers scope a logger to the unit of work it reports on:
//
//   - WithRayID tags entries with the RayID the rayid middleware stored on
//     the Fiber context, so every line of one request can be correlated.
//   - WithPreview tags entries with a preview session ID; the session's
//     controller and engine logs all carry it.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	l := logger.WithPreview(log, sessionID)
//	l.Warn("Preview error", zap.String("error", msg))
package logger
