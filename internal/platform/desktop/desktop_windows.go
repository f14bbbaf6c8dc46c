//go:build windows

package desktop

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
)

func IsInteractive() (bool, error) {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return false, err
	}
	return !isService, nil
}

// Alert shows a modal error box and echoes msg to stderr.
func Alert(title, msg string) {
	_, _ = windows.MessageBox(0, windows.StringToUTF16Ptr(msg), windows.StringToUTF16Ptr(title), windows.MB_ICONERROR)
	_, _ = fmt.Fprintln(os.Stderr, msg)
}

// LaunchConsole runs exe with args in a new console window that stays open
// after exe exits.
func LaunchConsole(exe string, args ...string) error {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, `"`+exe+`"`)
	parts = append(parts, args...)

	cmd := exec.Command("cmd.exe", "/k", strings.Join(parts, " "))
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_CONSOLE,
	}
	return cmd.Start()
}
