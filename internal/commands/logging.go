package commands

import (
	"strings"

	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// CommandLogger scopes a logger to edxml.commands.<group>, "core" when group
// is blank.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "core"
	}
	return logging.ModuleLogger(provider, "edxml.commands."+group)
}
