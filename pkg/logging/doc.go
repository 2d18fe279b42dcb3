// Package logging provides the subsystem-tagged logger used across partnerplane.
//
// It is a thin layer over log/slog: every entry carries a "subsystem"
// attribute and, for errors, an "error" attribute. Messages use printf-style
// formatting.
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("PartnershipStore", "Loaded %d partners from %s", n, path)
//	logging.Warn("Watcher", "Poll of %s failed: %v", path, err)
//	logging.Error("SocketProcessor", err, "Failed to accept connection")
//
// The server logs to stderr so that the interactive console keeps stdout.
//
// Hooks registered with AddHook observe every emitted entry; they are used by
// tests to assert on warnings.
package logging
