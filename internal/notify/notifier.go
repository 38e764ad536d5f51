package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DesktopNotifier delivers a system-level alert outside the terminal.
type DesktopNotifier interface {
	// Available reports whether the delivery mechanism exists on this host.
	Available() bool
	Send(title, body string) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Available() bool               { return false }
func (NoopDesktopNotifier) Send(title, body string) error { return nil }

// ExecDesktopNotifier shells out to the platform notification command:
// notify-send on Linux, osascript on macOS.
type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Available() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	default:
		return false
	}
}

func (ExecDesktopNotifier) Send(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", "--urgency=critical", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
