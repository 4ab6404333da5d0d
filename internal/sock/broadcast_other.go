//go:build !unix && !windows

package sock

import "errors"

func setBroadcast(uintptr, bool) error {
	return errors.ErrUnsupported
}

func getBroadcast(uintptr) (bool, error) {
	return false, errors.ErrUnsupported
}
