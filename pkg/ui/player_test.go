package ui

import (
	"testing"
	"time"

	"github.com/vanderheijden86/foxcasts/pkg/model"
)

func testEpisode() model.Episode {
	return model.Episode{
		ID:       "ep-1",
		Title:    "Pilot",
		Duration: 10 * time.Minute,
		Chapters: []model.Chapter{
			{Title: "Intro", Start: 0},
			{Title: "News", Start: 2 * time.Minute},
			{Title: "Outro", Start: 9 * time.Minute},
		},
	}
}

func TestPlayer_LoadResumes(t *testing.T) {
	e := testEpisode()
	e.Progress = 3 * time.Minute

	var p Player
	p.Load(e)
	if !p.Playing || p.Position != 3*time.Minute {
		t.Fatalf("player = %+v", p)
	}
	if p.dueSave() {
		t.Error("nothing to save right after loading")
	}

	e.Played = true
	p.Load(e)
	if p.Position != 0 {
		t.Errorf("played episode should restart, at %v", p.Position)
	}
}

func TestPlayer_AdvanceStopsAtEnd(t *testing.T) {
	var p Player
	p.Load(testEpisode())
	p.SeekTo(9*time.Minute + 59*time.Second)
	p.Advance(5 * time.Second)

	if p.Playing || !p.Finished() {
		t.Fatalf("player should stop at the end: %+v", p)
	}
	if p.Position != 10*time.Minute {
		t.Errorf("position = %v", p.Position)
	}

	// Playing a finished episode starts over.
	if !p.Toggle() || p.Position != 0 {
		t.Errorf("toggle after finish: playing=%v position=%v", p.Playing, p.Position)
	}
}

func TestPlayer_SeekClamps(t *testing.T) {
	var p Player
	p.Load(testEpisode())
	p.Seek(-SeekStep)
	if p.Position != 0 {
		t.Errorf("position = %v, want 0", p.Position)
	}
	p.Seek(time.Hour)
	if p.Position != 10*time.Minute {
		t.Errorf("position = %v, want end", p.Position)
	}
}

func TestPlayer_Chapter(t *testing.T) {
	var p Player
	p.Load(testEpisode())
	p.SeekTo(5 * time.Minute)
	ch, ok := p.Chapter()
	if !ok || ch.Title != "News" {
		t.Errorf("chapter = %+v, %v", ch, ok)
	}
}

func TestPlayer_DueSave(t *testing.T) {
	var p Player
	p.Load(testEpisode())

	p.Advance(10 * time.Second)
	if p.dueSave() {
		t.Error("save due too early")
	}
	p.Advance(5 * time.Second)
	if !p.dueSave() {
		t.Fatal("save should be due after 15s")
	}
	p.markSaved()

	p.Advance(time.Second)
	p.Toggle()
	if !p.dueSave() {
		t.Error("pausing should make a save due")
	}
}
