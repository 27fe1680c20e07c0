package process

import (
	"fmt"
	"runtime"
)

// OpenUnsupported is the backend for build targets without a process memory
// implementation. It never returns a handle.
func OpenUnsupported(pid ProcessID) (Handle, error) {
	return nil, &ProcessOperatorError{
		Op:   OpOpen,
		Kind: KindUnsupportedPlatform,
		PID:  pid,
		Err:  fmt.Errorf("no process memory backend for %s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
