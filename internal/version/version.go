// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Compressed tiers, catalog panel, gen command
// 0.2.0 - Sky view drawn from zoned tiers, refraction, hide/show queue
// 0.1.0 - Initial release: zoned catalog loader, HIP index, search and info commands
