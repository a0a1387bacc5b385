// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

import "fmt"

// UnknownValue is reported for metadata that was not set at build time.
const UnknownValue = "unknown"

// Context contains build-time metadata that is not user-configurable.
type Context struct {
	Version   string
	BuildDate string
}

// NewContext creates a Context.
func NewContext(version, buildDate string) *Context {
	return &Context{Version: version, BuildDate: buildDate}
}

// GetVersion returns the build version or UnknownValue.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date or UnknownValue.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// String formats the metadata for the version command.
func (c *Context) String() string {
	return fmt.Sprintf("weathercloset %s (built %s)", c.GetVersion(), c.GetBuildDate())
}
