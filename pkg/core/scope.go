package core

// UserScope surfaces the current user identity to the repository layer.
// It is the only signal consumed from the auth bridge: when a user is
// set, live queries are scoped to that user's plants.
type UserScope interface {
	// CurrentUserID returns the active user id and whether one is set.
	CurrentUserID() (string, bool)
}
