package locale

import (
	"embed"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

const localesDir = "locales"

// DefaultLanguage is used when the configured language is empty or unsupported
const DefaultLanguage = "en"

// Languages maps supported language codes to their native names
var Languages = map[string]string{
	"en": "English",
	"id": "Bahasa Indonesia",
	"ru": "Русский",
}

type Localizer struct {
	bundle      *i18n.Bundle
	localizer   *i18n.Localizer
	currentLang language.Tag
}

// NewLocalizer loads the embedded message files. An empty or "system" language selects English.
func NewLocalizer(currentLang string) (*Localizer, error) {
	if currentLang == "" || currentLang == "system" {
		currentLang = DefaultLanguage
	}
	lang, err := language.Parse(currentLang)
	if err != nil {
		return nil, err
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := localeFS.ReadDir(localesDir)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}

		data, err := localeFS.ReadFile(localesDir + "/" + file.Name())
		if err != nil {
			return nil, err
		}

		if _, err = bundle.ParseMessageFileBytes(data, file.Name()); err != nil {
			return nil, err
		}
	}

	return &Localizer{
		bundle:      bundle,
		localizer:   i18n.NewLocalizer(bundle, lang.String(), DefaultLanguage),
		currentLang: lang,
	}, nil
}

// MustLocalizer is NewLocalizer falling back to English on a bad language code
func MustLocalizer(currentLang string) *Localizer {
	l, err := NewLocalizer(currentLang)
	if err == nil {
		return l
	}
	l, err = NewLocalizer(DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return l
}

// Localize renders messageID with data; unknown IDs are returned as is
func (s *Localizer) Localize(messageID string, data map[string]any) string {
	msg, err := s.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// T is Localize without template data
func (s *Localizer) T(messageID string) string {
	return s.Localize(messageID, nil)
}

// Language returns the selected language code
func (s *Localizer) Language() string {
	return s.currentLang.String()
}

// SupportedLanguages returns the language codes with a message file, sorted
func SupportedLanguages() []string {
	codes := make([]string, 0, len(Languages))
	for code := range Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
