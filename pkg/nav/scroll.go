package nav

// ScrollBehavior selects how a container applies a new offset.
type ScrollBehavior int

const (
	// ScrollSmooth animates; used for user-driven movement.
	ScrollSmooth ScrollBehavior = iota
	// ScrollAuto jumps instantly; used when restoring a selection from the
	// URL so the page resumes in place.
	ScrollAuto
)

func (b ScrollBehavior) String() string {
	if b == ScrollAuto {
		return "auto"
	}
	return "smooth"
}

// NudgeDivisor sets the edge nudge to one third of the viewport height.
const NudgeDivisor = 3

// Bounds locates an item inside a scroll container, in rows.
type Bounds struct {
	Top    int
	Height int
}

// Bottom returns the first row below the item.
func (b Bounds) Bottom() int {
	return b.Top + b.Height
}

// ScrollContainer is a vertically scrolling region.
type ScrollContainer interface {
	Offset() int
	ViewportHeight() int
	ContentHeight() int
	ScrollTo(offset int, behavior ScrollBehavior)
}

// Scroller is what a Controller calls after it moves the selection.
type Scroller interface {
	// Follow brings the item with id into view.
	Follow(id string, behavior ScrollBehavior)
	// Nudge scrolls in direction dir (-1 up, +1 down) when the selection
	// could not move further.
	Nudge(dir int)
}

// Locator reports where the item with id is rendered.
type Locator func(id string) (Bounds, bool)

// ScrollFollower implements Scroller over a container and a locator.
type ScrollFollower struct {
	Container ScrollContainer
	Locate    Locator
}

// NewScrollFollower returns a follower for c.
func NewScrollFollower(c ScrollContainer, locate Locator) *ScrollFollower {
	return &ScrollFollower{Container: c, Locate: locate}
}

// Follow implements Scroller.
func (f *ScrollFollower) Follow(id string, behavior ScrollBehavior) {
	if f == nil || f.Container == nil || f.Locate == nil {
		return
	}
	b, ok := f.Locate(id)
	if !ok {
		return
	}
	Follow(f.Container, &b, 0, behavior)
}

// Nudge implements Scroller.
func (f *ScrollFollower) Nudge(dir int) {
	if f == nil || f.Container == nil {
		return
	}
	Follow(f.Container, nil, dir, ScrollSmooth)
}

// Follow scrolls c so target is fully visible, moving by the smallest delta
// that achieves it. With no target it nudges by a third of the viewport in
// direction dir instead, which lets users reveal trailing rows that are not
// selectable. Nothing happens when the offset would not change.
func Follow(c ScrollContainer, target *Bounds, dir int, behavior ScrollBehavior) {
	offset, height, content := c.Offset(), c.ViewportHeight(), c.ContentHeight()

	var next int
	if target != nil {
		next = RevealOffset(offset, height, *target)
	} else {
		next = NudgeOffset(offset, height, dir)
	}
	next = ClampOffset(next, height, content)
	if next == offset {
		return
	}
	c.ScrollTo(next, behavior)
}

// RevealOffset returns the offset closest to offset at which target is fully
// visible in a viewport of height rows. A target taller than the viewport is
// aligned to its top.
func RevealOffset(offset, height int, target Bounds) int {
	switch {
	case height <= 0:
		return target.Top
	case target.Top < offset, target.Height >= height:
		return target.Top
	case target.Bottom() > offset+height:
		return target.Bottom() - height
	}
	return offset
}

// NudgeOffset returns offset moved a third of height in direction dir, at
// least one row.
func NudgeOffset(offset, height, dir int) int {
	step := height / NudgeDivisor
	if step < 1 {
		step = 1
	}
	switch {
	case dir < 0:
		return offset - step
	case dir > 0:
		return offset + step
	}
	return offset
}

// ClampOffset keeps offset within [0, content-height].
func ClampOffset(offset, height, content int) int {
	maxOffset := content - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
