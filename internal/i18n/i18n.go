package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const fallbackLocale = "en-US"

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
)

// Init loads every locales/*.json file in localeFS and selects lang
func Init(localeFS fs.FS, lang string) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return fmt.Errorf("failed to list locale files: %w", err)
	}
	for _, file := range files {
		// A broken locale file must not stop the launcher
		if _, err := b.LoadMessageFileFS(localeFS, file); err != nil {
			slog.Warn("failed to load locale file", "file", file, "error", err)
		}
	}

	mu.Lock()
	bundle = b
	localizer = i18n.NewLocalizer(b, lang, language.English.String())
	mu.Unlock()
	return nil
}

// Resolve turns a configured locale into a language tag.
// "auto" detects the system locale and falls back to en-US.
func Resolve(configLocale string) string {
	if configLocale != "" && configLocale != "auto" {
		return configLocale
	}

	userLocale, err := locale.GetLocale()
	if err != nil || userLocale == "" {
		return fallbackLocale
	}
	return userLocale
}

// T translates a message by its ID with optional template data and plural count.
// A message missing from the selected locale falls back to English.
// Unknown IDs, and calls before Init, return the ID itself.
func T(messageID string, templateData map[string]interface{}, pluralCount ...int) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		return messageID
	}

	config := &i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	}
	if len(pluralCount) > 0 {
		config.PluralCount = pluralCount[0]
	}

	msg, err := l.Localize(config)
	if err != nil {
		// Localize reports the English fallback as a not-found error
		var notFound *i18n.MessageNotFoundErr
		if msg == "" || !errors.As(err, &notFound) {
			return messageID
		}
	}
	return msg
}

// SetLocale changes the current locale
func SetLocale(lang string) {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return
	}
	localizer = i18n.NewLocalizer(bundle, lang, language.English.String())
}
