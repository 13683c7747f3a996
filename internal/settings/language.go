package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jo-hoe/docscan/internal/kvstore"
)

// Language is an OCR recognition language code.
type Language string

const (
	LanguageAuto       Language = "auto"
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageItalian    Language = "it"
	LanguagePortuguese Language = "pt"
)

// DefaultLanguage is used until a preference has been stored.
const DefaultLanguage = LanguageAuto

const languageKey = "@ocr_language"

// ErrInvalidLanguage is returned when a language is not in the supported set.
var ErrInvalidLanguage = errors.New("unsupported OCR language")

var supportedLanguages = map[Language]bool{
	LanguageAuto:       true,
	LanguageEnglish:    true,
	LanguageSpanish:    true,
	LanguageFrench:     true,
	LanguageGerman:     true,
	LanguageItalian:    true,
	LanguagePortuguese: true,
}

// SupportedLanguages returns the fixed set of selectable languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageAuto,
		LanguageEnglish,
		LanguageSpanish,
		LanguageFrench,
		LanguageGerman,
		LanguageItalian,
		LanguagePortuguese,
	}
}

// IsValidLanguage reports whether lang belongs to the supported set.
func IsValidLanguage(lang Language) bool {
	return supportedLanguages[lang]
}

// LanguageStore holds the current OCR language preference in memory and
// mirrors it to the key-value store. Mutations are applied to memory first;
// a failed persist is logged but never rolled back.
type LanguageStore struct {
	mu       sync.RWMutex
	store    kvstore.Store
	language Language
}

func NewLanguageStore(store kvstore.Store) *LanguageStore {
	return &LanguageStore{
		store:    store,
		language: DefaultLanguage,
	}
}

// Load reads the persisted preference. A missing or invalid stored value
// keeps the compiled-in default.
func (s *LanguageStore) Load(ctx context.Context) {
	value, err := s.store.Get(ctx, languageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Warn("failed to load OCR language preference; keeping default",
				"default", DefaultLanguage, "error", err)
		}
		return
	}

	lang := Language(value)
	if !IsValidLanguage(lang) {
		slog.Warn("stored OCR language is not supported; keeping default",
			"stored", value, "default", DefaultLanguage)
		return
	}

	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
}

// Language returns the current preference.
func (s *LanguageStore) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Set validates lang, updates memory and writes the value through to the
// key-value store.
func (s *LanguageStore) Set(ctx context.Context, lang Language) error {
	if !IsValidLanguage(lang) {
		return fmt.Errorf("%w: %s", ErrInvalidLanguage, lang)
	}

	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()

	if err := s.store.Set(ctx, languageKey, string(lang)); err != nil {
		slog.Error("failed to persist OCR language preference", "language", lang, "error", err)
	}
	return nil
}
