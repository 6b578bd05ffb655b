// Package checker implements the two Set-Cookie plugins and the plumbing a host
// needs to drive them.
//
// Architecture overview:
//
//   - Plugins implement the Plugin interface (Run + Name). SetCookieChecker
//     performs one GET and inspects the Set-Cookie header for the secure and
//     HttpOnly attributes. ExternalScanner spawns the setcookie_scanner program
//     (or any program speaking the same protocol) and turns its JSON-lines
//     stdout into findings.
//   - Plugins never return findings directly to the host; they push them into a
//     Reporter together with exactly one terminal status. Collector keeps them
//     in memory, LineReporter writes them in the scanner wire format.
//   - ParseFindingLines is the pure best-effort decoder for scanner output:
//     malformed lines are skipped and handed back, never fatal.
//   - Runner fans a plugin out over several targets with a bounded worker
//     pool and a global rate limiter, giving every target its own Collector.
//
// The external scanner lifecycle is NotStarted -> Running -> Completed or
// Stopped. Stopped is only reached when the caller asked for the stop and the
// process actually died from the configured stop signal.
package checker
