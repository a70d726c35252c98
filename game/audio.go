package game

import (
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SkidCue wraps the looping tyre-screech sound. When no sound file is
// configured (or the file fails to load) the cue degrades to pure
// state tracking so the drive controller's toggle logic still works.
type SkidCue struct {
	sound   rl.Sound
	loaded  bool
	playing bool
}

// NewSkidCue loads the skid sound from path. An empty path yields a
// silent cue.
func NewSkidCue(path string, volume float64) *SkidCue {
	c := &SkidCue{}
	if path == "" {
		return c
	}
	if _, err := os.Stat(path); err != nil {
		slog.Warn("skid sound not found", "path", path, "error", err)
		return c
	}

	c.sound = rl.LoadSound(path)
	if c.sound.FrameCount == 0 {
		slog.Warn("skid sound failed to load", "path", path)
		return c
	}
	rl.SetSoundVolume(c.sound, float32(volume))
	c.loaded = true
	return c
}

// IsPlaying reports whether the cue is currently active.
func (c *SkidCue) IsPlaying() bool {
	if c.loaded {
		return rl.IsSoundPlaying(c.sound)
	}
	return c.playing
}

// Play starts the cue.
func (c *SkidCue) Play() {
	c.playing = true
	if c.loaded {
		rl.PlaySound(c.sound)
	}
}

// Stop silences the cue.
func (c *SkidCue) Stop() {
	c.playing = false
	if c.loaded {
		rl.StopSound(c.sound)
	}
}

// Unload releases the sound resource.
func (c *SkidCue) Unload() {
	if c.loaded {
		rl.UnloadSound(c.sound)
		c.loaded = false
	}
}
