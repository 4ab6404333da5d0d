//go:build windows

package sock

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func setBroadcast(fd uintptr, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, v)
}

func getBroadcast(fd uintptr) (bool, error) {
	var v int32
	l := int32(unsafe.Sizeof(v))
	err := windows.Getsockopt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, (*byte)(unsafe.Pointer(&v)), &l)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
