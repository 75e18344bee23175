package nav

// SelectedItemParam is the URL query parameter mirroring the selection.
const SelectedItemParam = "selectedItemId"

// Navigator is the routing capability the controller needs. ReplaceSelection
// rewrites the current location's selectedItemId (removing it for "") with a
// history replace, never a push, so hardware Back does not have to unwind
// every cursor movement. Implementations must not re-mount the current view
// in response.
type Navigator interface {
	ReplaceSelection(id string)
	CurrentSelection() string
}

// SeedFromNavigator returns the selection recorded in the current location,
// for use as Options.InitialSelectedID when a view mounts.
func SeedFromNavigator(n Navigator) string {
	if n == nil {
		return ""
	}
	return n.CurrentSelection()
}

// syncRoute writes id to n unless it already holds it.
func syncRoute(n Navigator, id string) {
	if n == nil {
		return
	}
	if n.CurrentSelection() == id {
		return
	}
	n.ReplaceSelection(id)
}
