// Package translation rewrites English text into the languages supported by
// the app. The default backend asks a local Ollama model; results are cached
// per language and source text.
package translation

import (
	"context"
	"errors"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("TRNS")

// ErrUnsupportedLanguage is returned for targets outside SupportedLanguages
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Translator translates English text into targetLang
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface
type TranslatorFunc func(ctx context.Context, text, targetLang string) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return f(ctx, text, targetLang)
}

// Cache stores translations keyed by target language and source text
type Cache interface {
	Get(ctx context.Context, lang, text string) (string, bool, error)
	Set(ctx context.Context, lang, text, translated string) error
}

// CachedTranslator consults a Cache before calling the wrapped Translator.
// Text already written in the target language's script is returned as is.
// Cache failures are logged and never fail the translation.
type CachedTranslator struct {
	next  Translator
	cache Cache
}

func NewCachedTranslator(next Translator, cache Cache) *CachedTranslator {
	return &CachedTranslator{next: next, cache: cache}
}

func (t *CachedTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if targetLang == DefaultLanguage || text == "" || DetectLanguage(text) == targetLang {
		return text, nil
	}

	cached, ok, err := t.cache.Get(ctx, targetLang, text)
	if err != nil {
		log.Warningf("Translation cache lookup failed: %v", err)
	} else if ok {
		return cached, nil
	}

	translated, err := t.next.Translate(ctx, text, targetLang)
	if err != nil {
		return "", err
	}
	if err := t.cache.Set(ctx, targetLang, text, translated); err != nil {
		log.Warningf("Translation cache store failed: %v", err)
	}
	return translated, nil
}
