// Package i18n translates report labels through a golang.org/x/text catalog
// populated from the configured translation tables.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator resolves a source label into the active locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a translator for locale from a locale -> source -> translated table.
// Locales without an explicit table fall back to the source labels.
func New(locale string, tables map[string]map[string]string) (*Translator, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return nil, err
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	locales := make([]string, 0, len(tables))
	for name := range tables {
		locales = append(locales, name)
	}
	sort.Strings(locales)

	for _, name := range locales {
		tableTag, err := ParseLocale(name)
		if err != nil {
			return nil, fmt.Errorf("translations: %w", err)
		}
		for source, translated := range tables[name] {
			if strings.TrimSpace(source) == "" {
				continue
			}
			if err := builder.SetString(tableTag, escapeVerbs(source), escapeVerbs(translated)); err != nil {
				return nil, fmt.Errorf("set translation %q for %s: %w", source, name, err)
			}
		}
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Translate returns the translated label or the label itself when no
// translation exists.
func (t *Translator) Translate(label string) string {
	if t == nil || t.printer == nil {
		return label
	}
	return t.printer.Sprintf(escapeVerbs(label))
}

func (t *Translator) Locale() string {
	if t == nil {
		return language.English.String()
	}
	return t.tag.String()
}

// ParseLocale parses a BCP 47 tag, treating an empty value as English.
func ParseLocale(locale string) (language.Tag, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.English, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag, nil
}

// Labels never carry format arguments, so a literal percent sign must not be
// read as a verb by the printer.
func escapeVerbs(value string) string {
	return strings.ReplaceAll(value, "%", "%%")
}
