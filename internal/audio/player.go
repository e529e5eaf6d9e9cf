package audio

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Player plays audio files through an external command line player. At
// most one file plays at a time.
type Player struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	command  func(file string) (*exec.Cmd, error)
	lookPath func(string) (string, error)
}

// NewPlayer creates a player using the first available system player.
func NewPlayer() *Player {
	p := &Player{lookPath: exec.LookPath}
	p.command = p.systemCommand
	return p
}

// NewCommandPlayer creates a player that runs the command built by fn.
func NewCommandPlayer(fn func(file string) (*exec.Cmd, error)) *Player {
	return &Player{command: fn, lookPath: exec.LookPath}
}

// Available reports whether a player command can be found.
func (p *Player) Available() error {
	_, err := p.command("")
	return err
}

// Start begins playing file in the background, stopping any current
// playback first. done is called with the command's exit status once
// playback ends or is stopped.
func (p *Player) Start(file string, done func(error)) error {
	cmd, err := p.command(file)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.stopLocked()
	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	p.cmd = cmd
	p.mu.Unlock()

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()
		if done != nil {
			done(err)
		}
	}()
	return nil
}

// Stop kills the current playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Playing reports whether a file is playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

func (p *Player) stopLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.cmd = nil
}

// systemCommand picks a platform player.
func (p *Player) systemCommand(file string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", file), nil
	case "linux", "freebsd", "openbsd":
		// mpg123 first since it handles MP3 files best
		candidates := []struct {
			name string
			args []string
		}{
			{"mpg123", []string{"-q"}},
			{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
			{"play", []string{"-q"}},
			{"paplay", nil},
			{"aplay", []string{"-q"}},
		}
		wav := strings.EqualFold(filepath.Ext(file), ".wav")
		for _, c := range candidates {
			if wav && c.name == "mpg123" {
				continue
			}
			if _, err := p.lookPath(c.name); err == nil {
				return exec.Command(c.name, append(c.args, file)...), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
