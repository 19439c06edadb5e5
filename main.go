package main

import (
	"embed"
	"log/slog"

	"github.com/egoavara/steward/cmd"
	"github.com/egoavara/steward/internal/config"
	"github.com/egoavara/steward/internal/i18n"
)

//go:embed locales/*.json
var localeFS embed.FS

func main() {
	// i18n 초기화
	if err := i18n.Init(localeFS, i18n.Resolve(config.GetLocale())); err != nil {
		slog.Warn("failed to initialize i18n", "error", err)
	}

	cmd.Execute()
}
