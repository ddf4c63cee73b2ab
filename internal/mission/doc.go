// Package mission dispatches a user request through destination lookup,
// orbit integration and rendering, and classifies failures for display.
package mission
