package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

type awayProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

var (
	user32DLL            = syscall.NewLazyDLL("user32.dll")
	kernel32DLL          = syscall.NewLazyDLL("kernel32.dll")
	procGetLastInputInfo = user32DLL.NewProc("GetLastInputInfo")
	procGetTickCount64   = kernel32DLL.NewProc("GetTickCount64")
)

func newAwayProvider() AwayProvider {
	return &awayProvider{}
}

func (provider *awayProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	tickResult, _, _ := procGetTickCount64.Call()
	// dwTime wraps every 49.7 days; compare in 32 bits.
	idleMillis := uint32(uint64(tickResult)) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
