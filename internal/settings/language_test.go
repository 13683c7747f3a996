package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/jo-hoe/docscan/internal/kvstore"
)

func TestLanguageStore_DefaultBeforeLoad(t *testing.T) {
	store := NewLanguageStore(kvstore.NewMemoryStore())

	if store.Language() != LanguageAuto {
		t.Errorf("Expected default language %q, got %q", LanguageAuto, store.Language())
	}
}

func TestLanguageStore_SetAndReload(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	store := NewLanguageStore(kv)
	if err := store.Set(ctx, LanguageGerman); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if store.Language() != LanguageGerman {
		t.Errorf("Expected language %q, got %q", LanguageGerman, store.Language())
	}

	// A fresh store over the same backing data adopts the persisted value.
	reloaded := NewLanguageStore(kv)
	reloaded.Load(ctx)
	if reloaded.Language() != LanguageGerman {
		t.Errorf("Expected reloaded language %q, got %q", LanguageGerman, reloaded.Language())
	}
}

func TestLanguageStore_RejectsInvalidLanguage(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	store := NewLanguageStore(kv)
	if err := store.Set(ctx, LanguageFrench); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	err := store.Set(ctx, Language("klingon"))
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Fatalf("Expected ErrInvalidLanguage, got %v", err)
	}

	// The previously stored value survives a reload.
	reloaded := NewLanguageStore(kv)
	reloaded.Load(ctx)
	if reloaded.Language() != LanguageFrench {
		t.Errorf("Expected language %q after reload, got %q", LanguageFrench, reloaded.Language())
	}
}

func TestLanguageStore_IgnoresCorruptStoredValue(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()
	if err := kv.Set(ctx, "@ocr_language", "not-a-language"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	store := NewLanguageStore(kv)
	store.Load(ctx)
	if store.Language() != DefaultLanguage {
		t.Errorf("Expected default language %q, got %q", DefaultLanguage, store.Language())
	}
}

func TestSupportedLanguages_Count(t *testing.T) {
	languages := SupportedLanguages()
	if len(languages) != 7 {
		t.Errorf("Expected 7 supported languages, got %d", len(languages))
	}
	if languages[0] != LanguageAuto {
		t.Errorf("Expected first language to be %q, got %q", LanguageAuto, languages[0])
	}
}
