//go:build windows
// +build windows

package platform

import (
	"context"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/berrythewa/clipman-history/internal/types"
)

const (
	inputKeyboard = 1
	keyEventKeyUp = 0x0002
	vkControl     = 0x11
	vkV           = 0x56
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSendInput    = user32.NewProc("SendInput")
	procGetCursorPos = user32.NewProc("GetCursorPos")
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors INPUT for the keyboard variant; the padding covers the
// larger MOUSEINPUT member of the union.
type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte
}

type point struct {
	x, y int32
}

type win32Input struct {
	logger *zap.Logger
}

// NewPaster returns the SendInput paste injector
func NewPaster(logger *zap.Logger) Paster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &win32Input{logger: logger}
}

// NewCursorLocator returns the GetCursorPos locator
func NewCursorLocator(logger *zap.Logger) CursorLocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &win32Input{logger: logger}
}

func (w *win32Input) CursorPosition() (int, int, error) {
	if err := procGetCursorPos.Find(); err != nil {
		return 0, 0, nil
	}
	var p point
	ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if ret == 0 {
		return 0, 0, nil
	}
	return int(p.x), int(p.y), nil
}

func (w *win32Input) Paste(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := procSendInput.Find(); err != nil {
		return types.Wrapf(types.ErrPasteInjectionUnavailable, "SendInput: %v", err)
	}

	key := func(vk uint16, flags uint32) input {
		return input{inputType: inputKeyboard, ki: keyboardInput{wVk: vk, dwFlags: flags}}
	}
	inputs := []input{
		key(vkControl, 0),
		key(vkV, 0),
		key(vkV, keyEventKeyUp),
		key(vkControl, keyEventKeyUp),
	}

	sent, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(sent) != len(inputs) {
		return types.Wrapf(types.ErrPasteInjectionUnavailable, "SendInput sent %d of %d events: %v", sent, len(inputs), err)
	}
	w.logger.Debug("Injected Ctrl+V via SendInput")
	return nil
}
