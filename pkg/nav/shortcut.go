package nav

import "strconv"

// MaxShortcuts is the number of digit shortcuts a list can hand out.
const MaxShortcuts = 9

// shortcutDigit returns n for "1".."9" and 0 for anything else.
func shortcutDigit(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}

// ShortcutFor returns the shortcut label for the item at position i of a
// list: "1" for the first item through "9" for the ninth, "" beyond.
func ShortcutFor(i int) string {
	if i < 0 || i >= MaxShortcuts {
		return ""
	}
	return strconv.Itoa(i + 1)
}

// ResolveShortcut finds the first enabled item in traversal order whose
// shortcut is digit. Duplicate shortcuts are a caller bug and are not
// reported; the first match wins.
func ResolveShortcut(items []Item, digit int) (Item, bool) {
	if digit < 1 || digit > MaxShortcuts {
		return Item{}, false
	}
	for _, it := range items {
		if it.Disabled {
			continue
		}
		if shortcutDigit(it.Shortcut) == digit {
			return it, true
		}
	}
	return Item{}, false
}
