//go:build linux

package operator

import (
	"procmem/process"
	"procmem/process_linux"
)

func open(pid process.ProcessID, opts ...process.Option) (process.ProcessOperator, error) {
	return process_linux.New(pid, opts...)
}
