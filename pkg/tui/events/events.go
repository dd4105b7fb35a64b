// Package events defines the messages exchanged between TUI components.
package events

import (
	"fmt"

	"tableflip.dev/medview/pkg/router"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// NavigateMsg asks the root model to change the location.
type NavigateMsg struct {
	Component ComponentID
	Path      string
}

// Describe renders the request in a human-friendly format for logs.
func (m NavigateMsg) Describe() string {
	return fmt.Sprintf("path:%q", m.Path)
}

// ResolvedMsg reports that the router finished resolving a path.
type ResolvedMsg struct {
	Resolution router.Resolution
}

// Describe renders the resolution in a human-friendly format for logs.
func (m ResolvedMsg) Describe() string {
	return fmt.Sprintf("path:%q outcome:%s", m.Resolution.Path, m.Resolution.Outcome)
}

// CommandSubmitMsg is emitted when the user submits a command line.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

// Describe renders the submission in a human-friendly format for logs.
func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf("value:%q", m.Value)
}

// CommandCancelMsg is emitted when the command line is dismissed.
type CommandCancelMsg struct {
	Component ComponentID
}

// FocusMsg indicates a component gained focus.
type FocusMsg struct {
	Component ComponentID
}

// BlurMsg indicates a component lost focus.
type BlurMsg struct {
	Component ComponentID
}
