package watcher

import tea "github.com/charmbracelet/bubbletea"

// ChangedMsg is delivered to the bubbletea program after a settled change.
type ChangedMsg struct {
	Path string
}

// WaitCmd blocks until the next change and reports it as a ChangedMsg.
// Re-issue it from Update after handling each message to keep listening.
func WaitCmd(w *Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return ChangedMsg{Path: w.Path()}
	}
}
