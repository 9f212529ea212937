// Package launch opens publication links and local files with the desktop's
// default handler.
package launch

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned where no opener command is known.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Opener opens links with a configurable command. An empty Command uses the
// platform default (open, xdg-open or rundll32).
type Opener struct {
	Command string
}

// NewOpener creates an opener. command may be empty.
func NewOpener(command string) *Opener {
	return &Opener{Command: command}
}

// Open opens target, which must be an http(s) URL or an existing file.
// The opener process is started, not waited for.
func (o *Opener) Open(target string) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	cmd, err := o.command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func checkTarget(target string) error {
	if target == "" {
		return errors.New("nothing to open")
	}
	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "" {
			return fmt.Errorf("invalid URL: %s", target)
		}
		return nil
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", target)
		}
		return fmt.Errorf("checking file: %w", err)
	}
	return nil
}

func (o *Opener) command(goos, target string) (*exec.Cmd, error) {
	if o.Command != "" {
		return exec.Command(o.Command, target), nil
	}
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}
