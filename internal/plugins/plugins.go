// Package plugins holds the ordered list of built-in plugin factories.
// Order is match priority: earlier plugins win fallback matches.
package plugins

import (
	"github.com/egoavara/steward/internal/plugin"
	"github.com/egoavara/steward/internal/plugins/help"
	"github.com/egoavara/steward/internal/plugins/openurl"
	"github.com/egoavara/steward/internal/plugins/search"
	"github.com/egoavara/steward/internal/plugins/toggle"
)

// Factories returns the built-in factories in registration order
func Factories() []plugin.Factory {
	return []plugin.Factory{
		help.Factory,
		toggle.OnFactory,
		toggle.OffFactory,
		openurl.Factory,
		search.Factory,
	}
}
