package tui

// stateChangedMsg means at least one observed query changed. The model rereads
// both observers, so coalesced notifications never lose the latest state.
type stateChangedMsg struct{}

// listRequestedMsg follows a list load or refresh being issued.
type listRequestedMsg struct{}
