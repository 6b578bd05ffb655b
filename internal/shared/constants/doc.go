// Package constants centralizes defaults shared across the CLI, the plugins,
// and the standalone scanner binary.
//
// File permissions, the external scanner's program name and stop signal, and
// the cookie reference link live here so cmd/ and internal/ agree on them
// without importing each other.
package constants
