package core

// Top-level keys of the persisted store.
const (
	KeyUsers       = "users"
	KeyNotes       = "notes"
	KeyCurrentUser = "currentUser"
	KeyTheme       = "theme"
)
