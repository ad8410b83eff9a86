package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// TerminalAudio plays cues the only way a terminal can: the bell rings on a
// crash and on a level-up, everything else is logged at debug level.
type TerminalAudio struct {
	out    io.Writer
	logger *log.Logger
	music  bool
}

// NewTerminalAudio creates an audio sink ringing the bell on out. A nil
// writer keeps the terminal silent; a nil logger discards cue logs.
func NewTerminalAudio(out io.Writer, logger *log.Logger) *TerminalAudio {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TerminalAudio{out: out, logger: logger}
}

func (a *TerminalAudio) OnLaneChange() {
	a.logger.Debug("cue", "sound", "lane")
}

func (a *TerminalAudio) OnCollision() {
	a.bell()
	a.logger.Debug("cue", "sound", "crash")
}

func (a *TerminalAudio) OnLevelUp() {
	a.bell()
	a.logger.Debug("cue", "sound", "level")
}

func (a *TerminalAudio) OnMusicStart() {
	a.music = true
	a.logger.Debug("music started")
}

func (a *TerminalAudio) OnMusicStop() {
	a.music = false
	a.logger.Debug("music stopped")
}

// Playing reports whether background music is on.
func (a *TerminalAudio) Playing() bool {
	return a.music
}

func (a *TerminalAudio) bell() {
	if a.out == nil {
		return
	}
	//nolint:errcheck // Best-effort, a lost bell is not an error
	fmt.Fprint(a.out, "\a")
}
