//go:build windows

package notifier

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")
	user32  = windows.NewLazySystemDLL("user32.dll")

	procShellNotifyIcon = shell32.NewProc("Shell_NotifyIconW")
	procCreateWindowEx  = user32.NewProc("CreateWindowExW")
	procDestroyWindow   = user32.NewProc("DestroyWindow")
	procLoadImage       = user32.NewProc("LoadImageW")
	procLoadIcon        = user32.NewProc("LoadIconW")
)

const (
	nimAdd    = 0x0
	nimModify = 0x1
	nimDelete = 0x2

	nifMessage = 0x1
	nifIcon    = 0x2
	nifTip     = 0x4
	nifInfo    = 0x10

	niifInfo = 0x1

	imageIcon      = 1
	lrLoadFromFile = 0x10
	lrDefaultSize  = 0x40
	idiApplication = 32512

	wmUser = 0x0400
)

// notifyIconData mirrors NOTIFYICONDATAW.
type notifyIconData struct {
	CbSize           uint32
	HWnd             windows.Handle
	UID              uint32
	UFlags           uint32
	UCallbackMessage uint32
	HIcon            windows.Handle
	SzTip            [128]uint16
	DwState          uint32
	DwStateMask      uint32
	SzInfo           [256]uint16
	UTimeout         uint32
	SzInfoTitle      [64]uint16
	DwInfoFlags      uint32
	GUIDItem         windows.GUID
	HBalloonIcon     windows.Handle
}

func (d *Desktop) balloon(ctx context.Context, title, message string) error {
	return withHiddenWindow(func(hwnd windows.Handle) error {
		return d.showBalloon(ctx, hwnd, title, message)
	})
}

// withHiddenWindow keeps the goroutine on one OS thread for the lifetime of the
// window, since only the creating thread may destroy it.
func withHiddenWindow(fn func(hwnd windows.Handle) error) (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hwnd, err := createHiddenWindow()
	if err != nil {
		return err
	}
	defer func() {
		if ok, _, callErr := procDestroyWindow.Call(uintptr(hwnd)); ok == 0 && err == nil {
			err = fmt.Errorf("failed to destroy notification window: %w", callErr)
		}
	}()

	return fn(hwnd)
}

func (d *Desktop) showBalloon(ctx context.Context, hwnd windows.Handle, title, message string) error {
	nid := notifyIconData{
		HWnd:             hwnd,
		UFlags:           nifIcon | nifMessage | nifTip,
		UCallbackMessage: wmUser + 20,
		HIcon:            d.loadIcon(),
	}
	nid.CbSize = uint32(unsafe.Sizeof(nid))
	copyUTF16(nid.SzTip[:], title)

	if ok, _, err := procShellNotifyIcon.Call(nimAdd, uintptr(unsafe.Pointer(&nid))); ok == 0 {
		return fmt.Errorf("failed to add tray icon: %w", err)
	}
	defer procShellNotifyIcon.Call(nimDelete, uintptr(unsafe.Pointer(&nid)))

	nid.UFlags = nifInfo
	nid.DwInfoFlags = niifInfo
	nid.UTimeout = uint32(d.duration / time.Millisecond)
	copyUTF16(nid.SzInfoTitle[:], title)
	copyUTF16(nid.SzInfo[:], message)

	if ok, _, err := procShellNotifyIcon.Call(nimModify, uintptr(unsafe.Pointer(&nid))); ok == 0 {
		return fmt.Errorf("failed to show balloon: %w", err)
	}

	timer := time.NewTimer(d.duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	return nil
}

// createHiddenWindow gives the tray icon an owner without registering a window class.
func createHiddenWindow() (windows.Handle, error) {
	class, err := windows.UTF16PtrFromString("STATIC")
	if err != nil {
		return 0, err
	}
	name, err := windows.UTF16PtrFromString("robobak")
	if err != nil {
		return 0, err
	}

	hwnd, _, callErr := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(name)),
		0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("failed to create notification window: %w", callErr)
	}
	return windows.Handle(hwnd), nil
}

// loadIcon falls back to the stock application icon when the icon file is unusable.
func (d *Desktop) loadIcon() windows.Handle {
	if d.iconPath != "" {
		if path, err := windows.UTF16PtrFromString(d.iconPath); err == nil {
			icon, _, _ := procLoadImage.Call(
				0,
				uintptr(unsafe.Pointer(path)),
				imageIcon,
				0, 0,
				lrLoadFromFile|lrDefaultSize,
			)
			if icon != 0 {
				return windows.Handle(icon)
			}
		}
	}

	icon, _, _ := procLoadIcon.Call(0, idiApplication)
	return windows.Handle(icon)
}

func copyUTF16(dst []uint16, s string) {
	src, err := windows.UTF16FromString(s)
	if err != nil {
		return
	}
	if len(src) > len(dst) {
		src = src[:len(dst)]
		src[len(src)-1] = 0
	}
	copy(dst, src)
}
