// Package nav implements D-pad spatial navigation and focus management.
//
// There is no native focus ring for directional input, so nav keeps its own
// notion of "which element is selected". The pieces fit together as follows:
//
//   - Classifier turns raw key messages into a closed set of logical keys.
//   - Registry holds every mounted selectable Item, indexed per Tier and kept
//     in traversal order.
//   - Arbiter derives the live tier from what is registered right now. Opening
//     an overlay registers High tier items and thereby steals input; there is
//     no explicit modal stack to push or pop.
//   - Controller owns the selection of one list or menu and moves it in
//     response to keys, applying an edge-stop or wrap boundary policy.
//   - ScrollFollower brings the selected item into view, or nudges the
//     container when an edge-stop list is pushed past its end.
//   - Navigator mirrors the selection into the selectedItemId URL parameter
//     with a history replace.
//   - Dispatcher owns the single input subscription and fans each key out to
//     attached controllers, highest tier first, until one claims it.
//
// Everything here is meant to be driven from one goroutine (the bubbletea
// Update loop). Registry is safe for concurrent use; the rest is not.
package nav
