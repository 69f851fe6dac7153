package transformers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// Default is the name of the transformer used when none is given.
const Default = "identity"

// RegisterDefaults registers every built-in transformer.
func RegisterDefaults(r *Registry) {
	r.Register("identity", func(map[string]any) (engine.Transformer, error) {
		return engine.Identity, nil
	})
	r.Register("uppercase", buildUppercase)
	r.Register("replace", buildReplace)
	r.Register("sanitize", buildSanitize)
	r.Register("markdown", buildMarkdown)
	r.Register("strip", buildStrip)
}

// NewDefaultRegistry returns a registry holding the built-ins.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// buildUppercase upper-cases visible text, leaving markup and links alone.
func buildUppercase(map[string]any) (engine.Transformer, error) {
	return Text(func(s string) (string, error) {
		return htmltext.MapText(s, strings.ToUpper), nil
	}), nil
}

// buildReplace replaces text in string values and content.
// Supported config keys:
//   - find (string, required): text or pattern to look for
//   - replace (string): replacement (default: "")
//   - regex (bool): treat find as a regular expression
func buildReplace(cfg map[string]any) (engine.Transformer, error) {
	find := getString(cfg, "find")
	if find == "" {
		return nil, fmt.Errorf("%w: replace needs a non-empty find", domain.ErrInvalidInput)
	}
	repl := getString(cfg, "replace")

	if getBool(cfg, "regex") {
		re, err := regexp.Compile(find)
		if err != nil {
			return nil, fmt.Errorf("%w: find pattern: %v", domain.ErrInvalidInput, err)
		}
		return Strings(func(s string) (string, error) {
			return re.ReplaceAllString(s, repl), nil
		}), nil
	}
	return Strings(func(s string) (string, error) {
		return strings.ReplaceAll(s, find, repl), nil
	}), nil
}

// buildSanitize strips unsafe markup from string values holding HTML.
// Supported config keys:
//   - policy (string): "ugc" (default) or "strict" (removes every tag)
func buildSanitize(cfg map[string]any) (engine.Transformer, error) {
	var policy *bluemonday.Policy
	switch p := getString(cfg, "policy"); p {
	case "", "ugc":
		policy = bluemonday.UGCPolicy()
	case "strict":
		policy = bluemonday.StrictPolicy()
	default:
		return nil, fmt.Errorf("%w: unknown sanitize policy %q", domain.ErrInvalidInput, p)
	}
	return Strings(func(s string) (string, error) {
		if !htmltext.IsMarkup(s) {
			return s, nil
		}
		return policy.Sanitize(s), nil
	}), nil
}

// buildMarkdown converts string values holding HTML to Markdown.
// Supported config keys:
//   - domain (string): base URL used to absolutize relative links
func buildMarkdown(cfg map[string]any) (engine.Transformer, error) {
	conv := htmltomarkdown.NewConverter(
		htmltomarkdown.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	var opts []htmltomarkdown.ConvertOptionFunc
	if d := getString(cfg, "domain"); d != "" {
		opts = append(opts, htmltomarkdown.WithDomain(d))
	}
	return Strings(func(s string) (string, error) {
		if !htmltext.IsMarkup(s) {
			return s, nil
		}
		return conv.ConvertString(s, opts...)
	}), nil
}

// buildStrip removes keys from the zone.
// Supported config keys:
//   - keys ([]string): only remove these keys (default: every key)
func buildStrip(cfg map[string]any) (engine.Transformer, error) {
	only := getStringSlice(cfg, "keys")
	return func(z domain.Zone) (domain.Zone, error) {
		if len(only) == 0 {
			z.Data = domain.NewAttributes()
			return z, nil
		}
		for _, k := range only {
			z.Data.Delete(k)
		}
		return z, nil
	}, nil
}

// Strings builds a transformer applying fn to every top-level string value
// of the zone and to its content. Non-string values are left as they are.
func Strings(fn func(string) (string, error)) engine.Transformer {
	return mapStrings(nil, fn)
}

// Text is Strings for human-readable text: values under link keys and
// values holding absolute URLs are left as they are.
func Text(fn func(string) (string, error)) engine.Transformer {
	return mapStrings(isLink, fn)
}

// linkKeys name attributes holding URLs or media references.
var linkKeys = map[string]bool{
	"url": true, "link": true, "href": true, "src": true,
	"image": true, "video": true, "audio": true, "gallery": true, "icon": true,
}

func isLink(key, value string) bool {
	if linkKeys[key] {
		return true
	}
	for _, suffix := range []string{"_url", "_link", "_href", "_src"} {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return isAbsoluteURL(value)
}

func isAbsoluteURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "":
		return false
	case "mailto", "tel":
		return u.Opaque != ""
	}
	return u.Host != ""
}

func mapStrings(skip func(key, value string) bool, fn func(string) (string, error)) engine.Transformer {
	return func(z domain.Zone) (domain.Zone, error) {
		var err error
		for _, key := range z.Data.Keys() {
			v, _ := z.Data.Get(key)
			s, ok := v.AsString()
			if !ok || (skip != nil && skip(key, s)) {
				continue
			}
			out, ferr := fn(s)
			if ferr != nil {
				err = fmt.Errorf("value %q: %w", key, ferr)
				break
			}
			if out != s {
				z.Data.Set(key, domain.StringValue(out))
			}
		}
		if err != nil {
			return z, err
		}
		if z.Content != nil {
			out, ferr := fn(*z.Content)
			if ferr != nil {
				return z, fmt.Errorf("content: %w", ferr)
			}
			z.Content = &out
		}
		return z, nil
	}
}

func getString(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}

// getBool accepts booleans and the strings flags produce.
func getBool(cfg map[string]any, key string) bool {
	switch v := cfg[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "yes"
	}
	return false
}

// getStringSlice accepts lists and comma-separated strings.
func getStringSlice(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return nil
}
