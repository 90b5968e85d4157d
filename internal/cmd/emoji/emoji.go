// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed in front of command results.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"
)
