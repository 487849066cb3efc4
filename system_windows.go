//go:build windows

package menuguard

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")
)

const (
	whKeyboardLL = 13
	hcAction     = 0

	wmQuit = 0x0012
	wmUser = 0x0400

	pmNoRemove = 0

	inputKeyboard  = 1
	keyeventfKeyUp = 0x0002
)

type kbdllHookStruct struct {
	VKCode    uint32
	ScanCode  uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type message struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type keybdInput struct {
	VK        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// input mirrors the Win32 INPUT struct for keyboard events. The trailing
// pad brings the keyboard arm up to the size of the full union, whose
// largest arm is MOUSEINPUT.
type input struct {
	Type uint32
	KI   keybdInput
	_    [8]byte
}

// hookProcPtr is the single callback shared by every installed hook.
// syscall callbacks are a finite per-process resource and are never
// released, so one is minted for the process and events are routed through
// the registry by thread id instead.
var hookProcPtr = sync.OnceValue(func() uintptr {
	return syscall.NewCallback(lowLevelKeyboardProc)
})

func lowLevelKeyboardProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) == hcAction {
		if t, ok := transitionOf(uint32(wParam)); ok {
			kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			ev := NewKeyEvent(VirtualKey(kb.VKCode), t, kb.Time, kb.Flags&llkhfInjected != 0)
			hooks.dispatch(windows.GetCurrentThreadId(), ev)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}

type winSystem struct{}

func newSystem() system { return winSystem{} }

func (winSystem) threadID() uint32 {
	return windows.GetCurrentThreadId()
}

func (winSystem) prepareQueue() {
	var m message
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, pmNoRemove)
}

func (winSystem) installHook() (uintptr, error) {
	module, err := windows.GetModuleHandle(nil)
	if err != nil {
		return 0, err
	}
	hook, _, callErr := procSetWindowsHookExW.Call(whKeyboardLL, hookProcPtr(), uintptr(module), 0)
	if hook == 0 {
		return 0, callErr
	}
	return hook, nil
}

func (winSystem) removeHook(token uintptr) error {
	ok, _, err := procUnhookWindowsHookEx.Call(token)
	if ok == 0 {
		return err
	}
	return nil
}

func (winSystem) run() {
	var m message
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		// 0 is WM_QUIT, -1 is failure; both end the pump.
		if r := int32(ret); r == 0 || r == -1 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (winSystem) postQuit(tid uint32) error {
	ok, _, err := procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
	if ok == 0 {
		return err
	}
	return nil
}

func (winSystem) injectTap(vk VirtualKey) error {
	inputs := [2]input{
		{Type: inputKeyboard, KI: keybdInput{VK: uint16(vk)}},
		{Type: inputKeyboard, KI: keybdInput{VK: uint16(vk), Flags: keyeventfKeyUp}},
	}
	sent, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(sent) != len(inputs) {
		return fmt.Errorf("SendInput delivered %d of %d events: %v", sent, len(inputs), err)
	}
	return nil
}
