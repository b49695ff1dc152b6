package refract

import "github.com/zoobzio/capitan"

// Field keys for refract events.
var (
	// KeyPath is the filesystem path an event refers to.
	KeyPath = capitan.NewStringKey("path")

	// KeyOrigin is the logical origin of a change (data or process).
	KeyOrigin = capitan.NewStringKey("origin")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyOldState is the previous scheduler state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new scheduler state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce interval.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyGeneration is the run generation number.
	KeyGeneration = capitan.NewIntKey("generation")

	// KeyEditor is the editor command being spawned.
	KeyEditor = capitan.NewStringKey("editor")
)
