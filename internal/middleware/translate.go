package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anonto42/finmate/backend/internal/translation"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"
)

var log = logging.MustGetLogger("MDW")

// translateConcurrency bounds the array items of one response translated at once
const translateConcurrency = 8

// TranslateConfig defines the config for the Translate middleware
type TranslateConfig struct {
	// Skipper defines a function to skip the middleware
	Skipper eMiddleware.Skipper

	// Fields are the JSON keys whose string values are translated, at any depth
	Fields []string

	// Translator performs the translation. A nil Translator disables the middleware.
	Translator translation.Translator
}

// Translate rewrites the configured text fields of JSON responses into the
// caller's language. Structure, keys and non-string values are preserved.
// Responses are passed through untouched for English or unsupported
// languages, non-JSON bodies and handler errors.
func Translate(config TranslateConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = eMiddleware.DefaultSkipper
	}
	fields := make(map[string]struct{}, len(config.Fields))
	for _, f := range config.Fields {
		fields[f] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Translator == nil || config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			var claimLang string
			if claims := CurrentUser(c); claims != nil {
				claimLang = claims.Language
			}
			lang := translation.ResolveLanguage(claimLang, req.Header.Get("X-User-Language"), req.Header.Get("Accept-Language"))
			if lang == translation.DefaultLanguage || !translation.IsSupported(lang) {
				return next(c)
			}

			res := c.Response()
			original := res.Writer
			buffered := &bufferedWriter{ResponseWriter: original}
			res.Writer = buffered
			err := next(c)
			res.Writer = original

			if !buffered.wrote {
				return err
			}

			body := buffered.body.Bytes()
			if err == nil && isJSON(original.Header().Get(echo.HeaderContentType)) {
				body = translateBody(req.Context(), body, fields, lang, config.Translator)
			}
			original.WriteHeader(buffered.status)
			if _, werr := original.Write(body); werr != nil {
				log.Warningf("Failed to write translated response: %v", werr)
			}
			return err
		}
	}
}

type bufferedWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
	wrote  bool
}

func (w *bufferedWriter) WriteHeader(code int) {
	w.status = code
	w.wrote = true
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.wrote = true
	return w.body.Write(b)
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, echo.MIMEApplicationJSON)
}

// translateBody returns body with the configured fields translated, or body
// unchanged when it is not valid JSON
func translateBody(ctx context.Context, body []byte, fields map[string]struct{}, lang string, t translation.Translator) []byte {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return body
	}

	payload = translateValue(ctx, payload, fields, lang, t)

	var out bytes.Buffer
	if err := json.NewEncoder(&out).Encode(payload); err != nil {
		return body
	}
	return out.Bytes()
}

func translateValue(ctx context.Context, v any, fields map[string]struct{}, lang string, t translation.Translator) any {
	switch val := v.(type) {
	case map[string]any:
		for key, item := range val {
			if s, ok := item.(string); ok {
				if _, wanted := fields[key]; wanted && s != "" {
					val[key] = translateText(ctx, s, lang, t)
				}
				continue
			}
			val[key] = translateValue(ctx, item, fields, lang, t)
		}
	case []any:
		var g errgroup.Group
		g.SetLimit(translateConcurrency)
		for i, item := range val {
			g.Go(func() error {
				val[i] = translateValue(ctx, item, fields, lang, t)
				return nil
			})
		}
		_ = g.Wait()
	}
	return v
}

func translateText(ctx context.Context, text, lang string, t translation.Translator) string {
	translated, err := t.Translate(ctx, text, lang)
	if err != nil {
		log.Warningf("Keeping untranslated text for %s: %v", lang, err)
		return text
	}
	return translated
}
