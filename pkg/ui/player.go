package ui

import (
	"time"

	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// SeekStep is how far Left and Right move playback.
const SeekStep = 30 * time.Second

// saveEvery is how much playback may pass between progress writes.
const saveEvery = 15 * time.Second

// Player is the simulated playback clock. There is no audio output; the
// clock only advances while Playing.
type Player struct {
	Episode  model.Episode
	Position time.Duration
	Playing  bool
	saved    time.Duration
}

// Loaded reports whether an episode is in the player.
func (p *Player) Loaded() bool {
	return p.Episode.ID != ""
}

// Load puts e in the player and starts it from its saved progress.
func (p *Player) Load(e model.Episode) {
	p.Episode = e
	p.Position = e.Progress
	if e.Played || p.Position >= e.Duration {
		p.Position = 0
	}
	p.saved = p.Position
	p.Playing = true
}

// Toggle flips between playing and paused and returns the new state.
func (p *Player) Toggle() bool {
	if !p.Loaded() {
		return false
	}
	if !p.Playing && p.Finished() {
		p.Position = 0
	}
	p.Playing = !p.Playing
	return p.Playing
}

// Seek moves the position by d, clamped to the episode.
func (p *Player) Seek(d time.Duration) {
	p.SeekTo(p.Position + d)
}

// SeekTo moves to pos, clamped to the episode.
func (p *Player) SeekTo(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	if p.Episode.Duration > 0 && pos > p.Episode.Duration {
		pos = p.Episode.Duration
	}
	p.Position = pos
}

// Advance moves the clock by d while playing. It stops at the end.
func (p *Player) Advance(d time.Duration) {
	if !p.Playing {
		return
	}
	p.SeekTo(p.Position + d)
	if p.Finished() {
		p.Playing = false
	}
}

// Finished reports whether the position reached the end.
func (p *Player) Finished() bool {
	return p.Episode.Duration > 0 && p.Position >= p.Episode.Duration
}

// Chapter returns the chapter containing the position.
func (p *Player) Chapter() (model.Chapter, bool) {
	var cur model.Chapter
	found := false
	for _, ch := range p.Episode.Chapters {
		if ch.Start > p.Position {
			break
		}
		cur, found = ch, true
	}
	return cur, found
}

// dueSave reports whether enough playback passed since the last write, or
// playback just stopped.
func (p *Player) dueSave() bool {
	if !p.Loaded() || p.Position == p.saved {
		return false
	}
	if !p.Playing {
		return true
	}
	d := p.Position - p.saved
	return d >= saveEvery || d <= -saveEvery
}

func (p *Player) markSaved() {
	p.saved = p.Position
}
