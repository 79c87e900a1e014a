// Package hook runs user-supplied Tengo scripts around a version install.
//
// Scripts live in <root>/hooks/<type>.tengo. A script fails the install by assigning a
// non-empty string or an error value to the global variable err.
package hook

import "context"

// Type names the point of the install at which a script runs.
type Type string

// Supported hook types.
const (
	PreInstall  Type = "pre-install"
	PostInstall Type = "post-install"
)

// Types lists the hook types in execution order.
func Types() []Type {
	return []Type{PreInstall, PostInstall}
}

// Hook is a script bound to a hook type.
type Hook struct {
	Type    Type
	Content string
}

// Context is exposed to scripts as global variables.
type Context struct {
	VersionID string
	AssetsID  string
	RootDir   string
	Platform  string
	JavaMajor int
	Vars      map[string]any
}

// Runner executes the script registered for a hook type, if any.
type Runner interface {
	Run(ctx context.Context, t Type, hc Context) error
}
