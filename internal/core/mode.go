// Package core is the orchestration layer.  It composes a transport
// and a capability into the receiver's single operational mode and
// provides a builder that wires it from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  capability  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete operational mode.  It owns its full lifecycle from
// binding the endpoint to releasing it.
type Mode interface {
	Run(ctx context.Context) error
}
