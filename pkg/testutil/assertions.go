package testutil

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// AssertNoDuplicateIDs verifies all episode IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, episodes []model.Episode) {
	t.Helper()
	seen := make(map[string]bool)
	for _, e := range episodes {
		if seen[e.ID] {
			t.Errorf("duplicate episode ID: %s", e.ID)
		}
		seen[e.ID] = true
	}
}

// AssertNewestFirst verifies episodes are sorted by descending publication.
func AssertNewestFirst(t *testing.T, episodes []model.Episode) {
	t.Helper()
	for i := 1; i < len(episodes); i++ {
		if episodes[i].PublishedAt.After(episodes[i-1].PublishedAt) {
			t.Errorf("episode %s (%v) is newer than %s (%v) before it",
				episodes[i].ID, episodes[i].PublishedAt, episodes[i-1].ID, episodes[i-1].PublishedAt)
		}
	}
}

// AssertSelected verifies a controller's selection.
func AssertSelected(t *testing.T, c *nav.Controller, want string) {
	t.Helper()
	if got := c.SelectedID(); got != want {
		t.Errorf("selected %q, want %q", got, want)
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// IDs returns the IDs of episodes in order.
func IDs(episodes []model.Episode) []string {
	out := make([]string, len(episodes))
	for i, e := range episodes {
		out[i] = e.ID
	}
	return out
}
