//go:build windows

package operator

import (
	"procmem/process"
	"procmem/process_windows"
)

func open(pid process.ProcessID, opts ...process.Option) (process.ProcessOperator, error) {
	return process_windows.New(pid, opts...)
}
