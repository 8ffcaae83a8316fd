package messages

import "fpick/internal/watch"

type ErrorMsg struct {
	Err error
}

// PostMsg carries a function to run on the program loop
type PostMsg struct {
	Fn func()
}

type WatchEventMsg struct {
	Event watch.Event
}

// WatchClosedMsg reports that the watcher stopped delivering events
type WatchClosedMsg struct{}

// RefreshMsg asks for the listing to be rebuilt. Only the latest
// generation is honored.
type RefreshMsg struct {
	Gen int
}
