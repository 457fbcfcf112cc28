// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Solar event watcher (@sunrise/@sunset cron specs), observer day view
// 0.2.0 - Observer longitude, JSON export, library cross-checks
// 0.1.0 - Initial release: latitude almanac table, TUI, headless table mode
