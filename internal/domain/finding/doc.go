// Package finding holds the values the plugins report to their host: findings,
// severities, and the terminal status of a run.
package finding
