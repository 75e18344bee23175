package nav

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyKind is the closed set of logical navigation keys.
type KeyKind int

const (
	KeyUnrecognized KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyConfirm
	KeyCancel
	KeySoftLeft
	KeySoftRight
	KeyBackspace
	KeyShortcut
)

func (k KeyKind) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyConfirm:
		return "confirm"
	case KeyCancel:
		return "cancel"
	case KeySoftLeft:
		return "soft-left"
	case KeySoftRight:
		return "soft-right"
	case KeyBackspace:
		return "backspace"
	case KeyShortcut:
		return "shortcut"
	default:
		return "unrecognized"
	}
}

// Key is a classified key event. Digit is 1..9 for KeyShortcut and 0
// otherwise.
type Key struct {
	Kind  KeyKind
	Digit int
}

// Shortcut returns the logical key for digit n.
func Shortcut(n int) Key {
	if n < 1 || n > 9 {
		return Key{}
	}
	return Key{Kind: KeyShortcut, Digit: n}
}

func (k Key) String() string {
	if k.Kind == KeyShortcut {
		return fmt.Sprintf("shortcut(%d)", k.Digit)
	}
	return k.Kind.String()
}

// Recognized reports whether k is anything but KeyUnrecognized.
func (k Key) Recognized() bool {
	return k.Kind != KeyUnrecognized
}

// Direction returns -1 for Up/Left, +1 for Down/Right and 0 otherwise.
func (k Key) Direction() int {
	switch k.Kind {
	case KeyUp, KeyLeft:
		return -1
	case KeyDown, KeyRight:
		return 1
	}
	return 0
}

// KeyMap holds the raw key bindings behind each logical key.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	SoftLeft  key.Binding
	SoftRight key.Binding

	// Synthetic soft keys stand in for the physical ones on keyboards that
	// have none.
	SyntheticSoftLeft  key.Binding
	SyntheticSoftRight key.Binding
}

// DefaultKeyMap returns the D-pad layout.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:                 key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
		Down:               key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Left:               key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Right:              key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Confirm:            key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel:             key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Backspace:          key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "back")),
		SoftLeft:           key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "left soft key")),
		SoftRight:          key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "right soft key")),
		SyntheticSoftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "left soft key")),
		SyntheticSoftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "right soft key")),
	}
}

func (km *KeyMap) binding(name string) *key.Binding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up":
		return &km.Up
	case "down":
		return &km.Down
	case "left":
		return &km.Left
	case "right":
		return &km.Right
	case "confirm":
		return &km.Confirm
	case "cancel":
		return &km.Cancel
	case "backspace":
		return &km.Backspace
	case "soft_left", "soft-left", "softleft":
		return &km.SoftLeft
	case "soft_right", "soft-right", "softright":
		return &km.SoftRight
	case "synthetic_soft_left":
		return &km.SyntheticSoftLeft
	case "synthetic_soft_right":
		return &km.SyntheticSoftRight
	}
	return nil
}

// WithOverrides returns a copy of km with the named bindings replaced. Names
// are logical key names ("up", "confirm", "soft_left", ...). Digits cannot
// be rebound: they are always shortcuts.
func (km KeyMap) WithOverrides(overrides map[string][]string) (KeyMap, error) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	out := km
	for _, name := range names {
		keys := overrides[name]
		b := out.binding(name)
		if b == nil {
			return km, fmt.Errorf("unknown key binding %q", name)
		}
		if len(keys) == 0 {
			return km, fmt.Errorf("key binding %q has no keys", name)
		}
		for _, k := range keys {
			if shortcutDigit(k) != 0 {
				return km, fmt.Errorf("key binding %q: digit %q is reserved for shortcuts", name, k)
			}
		}
		help := b.Help()
		*b = key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help.Desc))
	}
	return out, nil
}

// InputContext describes where keyboard focus currently sits.
type InputContext struct {
	// InTextField is set while a text input owns focus.
	InTextField bool
	// AllowInField opts in to classification inside a text field, e.g. so
	// Confirm can submit a search.
	AllowInField bool
}

// Classifier maps raw key messages to logical keys. It is a pure function of
// its inputs.
type Classifier struct {
	keys      KeyMap
	synthetic bool
}

// NewClassifier returns a classifier over keys. syntheticSoftKeys enables the
// modifier+Left/Right soft-key emulation.
func NewClassifier(keys KeyMap, syntheticSoftKeys bool) Classifier {
	return Classifier{keys: keys, synthetic: syntheticSoftKeys}
}

// DefaultClassifier uses DefaultKeyMap with synthetic soft keys enabled.
func DefaultClassifier() Classifier {
	return NewClassifier(DefaultKeyMap(), true)
}

// KeyMap returns the bindings the classifier matches against.
func (c Classifier) KeyMap() KeyMap {
	return c.keys
}

// Classify converts msg into a logical key.
func (c Classifier) Classify(msg tea.KeyMsg, ctx InputContext) Key {
	if ctx.InTextField && !ctx.AllowInField {
		return Key{}
	}

	if c.synthetic {
		switch {
		case key.Matches(msg, c.keys.SyntheticSoftLeft):
			return Key{Kind: KeySoftLeft}
		case key.Matches(msg, c.keys.SyntheticSoftRight):
			return Key{Kind: KeySoftRight}
		}
	}

	switch {
	case key.Matches(msg, c.keys.Up):
		return Key{Kind: KeyUp}
	case key.Matches(msg, c.keys.Down):
		return Key{Kind: KeyDown}
	case key.Matches(msg, c.keys.Left):
		return Key{Kind: KeyLeft}
	case key.Matches(msg, c.keys.Right):
		return Key{Kind: KeyRight}
	case key.Matches(msg, c.keys.Confirm):
		return Key{Kind: KeyConfirm}
	case key.Matches(msg, c.keys.Cancel):
		return Key{Kind: KeyCancel}
	case key.Matches(msg, c.keys.Backspace):
		return Key{Kind: KeyBackspace}
	case key.Matches(msg, c.keys.SoftLeft):
		return Key{Kind: KeySoftLeft}
	case key.Matches(msg, c.keys.SoftRight):
		return Key{Kind: KeySoftRight}
	}

	if msg.Type == tea.KeyRunes && !msg.Alt {
		if n := shortcutDigit(string(msg.Runes)); n != 0 {
			return Shortcut(n)
		}
	}
	return Key{}
}
