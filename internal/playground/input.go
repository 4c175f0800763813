package playground

import (
	"github.com/tinyrange/shaderplay/internal/gowin/window"
)

// handleInput applies the key bindings:
//
//	F5     reload config, shaders and texture
//	F6     save a screenshot after this frame renders
//	Space  toggle pause
//	Left   step time back while paused
//	Right  step time forward while paused
//	R      revert to the last shaders that compiled
//	Q      exit immediately
func (a *App) handleInput(events []window.InputEvent) error {
	for _, ev := range events {
		if ev.Type != window.InputEventKeyDown || ev.Repeat {
			continue
		}
		switch ev.Key {
		case window.KeyF5:
			if err := a.Reload(); err != nil {
				return err
			}
		case window.KeyF6:
			a.screenshotPending = true
		case window.KeySpace:
			a.paused = !a.paused
			a.log.Debug("pause", "paused", a.paused, "time", a.time)
		case window.KeyR:
			if err := a.r.Revert(); err != nil {
				a.log.Warn("cannot revert", "error", err)
			}
		case window.KeyQ:
			// No cleanup: GPU objects go with the process.
			a.opts.Exit(0)
			return nil
		}

		if a.paused {
			switch ev.Key {
			case window.KeyLeft:
				a.time -= ManualTimeStep
			case window.KeyRight:
				a.time += ManualTimeStep
			}
		}
	}
	return nil
}
