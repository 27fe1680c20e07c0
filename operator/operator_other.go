//go:build !linux && !windows

package operator

import "procmem/process"

func open(pid process.ProcessID, opts ...process.Option) (process.ProcessOperator, error) {
	op, err := process.Open(pid, process.OpenUnsupported, opts...)
	if err != nil {
		return nil, err
	}
	return op, nil
}
