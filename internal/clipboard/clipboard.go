// Package clipboard copies formatted citations to the system clipboard via
// the platform's clipboard command.
package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command can be found.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// candidate is a clipboard command and its arguments.
type candidate struct {
	name string
	args []string
}

// linuxCandidates are tried in order. wl-copy only applies under Wayland.
func linuxCandidates() []candidate {
	var cs []candidate
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		cs = append(cs, candidate{"wl-copy", nil})
	}
	return append(cs,
		candidate{"xclip", []string{"-selection", "clipboard"}},
		candidate{"xsel", []string{"--clipboard", "--input"}},
	)
}

// getClipboardCommand returns the command that writes stdin to the clipboard,
// or ErrClipboardUnavailable. It never returns both.
func getClipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "linux":
		for _, c := range linuxCandidates() {
			if _, err := exec.LookPath(c.name); err == nil {
				return exec.Command(c.name, c.args...), nil
			}
		}
	case "windows":
		if _, err := exec.LookPath("clip"); err == nil {
			return exec.Command("clip"), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// IsAvailable reports whether a clipboard command exists on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
