// Package operator picks the process memory backend for the build target.
package operator

import "procmem/process"

// DefaultProcessOperator opens pid with the backend for the current platform.
// On platforms without a backend it fails with process.ErrUnsupportedPlatform.
func DefaultProcessOperator(pid process.ProcessID, opts ...process.Option) (process.ProcessOperator, error) {
	return open(pid, opts...)
}
