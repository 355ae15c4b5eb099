// Package payload locates the JSON blob that listing pages embed in
// their HTML. Modern storefronts ship the page state inside <script>
// tags; the markup around it is not worth parsing, the state is.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoPayload means no script tag on the page yielded a JSON object.
// The page itself was fetched fine, so callers skip the URL instead of
// retrying.
var ErrNoPayload = errors.New("payload: no embedded JSON found")

// (?s) lets the object span lines; the assignment is pretty-printed in
// the wild.
var nuxtStateRe = regexp.MustCompile(`(?s)window\.__NUXT__\s*=\s*(\{.*?\})\s*;`)

// Extract returns the first embedded JSON object found in the page,
// trying sources from most to least trustworthy:
//
//  1. script tags typed application/json
//  2. a window.__NUXT__ = {...}; assignment anywhere in the raw HTML
//  3. any script tag whose text parses as (or contains) a JSON object
func Extract(html []byte) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	scripts := doc.Find("script")

	var found map[string]any
	scripts.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		typ, _ := s.Attr("type")
		if !strings.Contains(typ, "application/json") {
			return true
		}
		if obj := tryParseObject(s.Text()); obj != nil {
			found = obj
			return false
		}
		return true
	})
	if found != nil {
		return found, nil
	}

	if m := nuxtStateRe.FindSubmatch(html); m != nil {
		if obj := tryParseObject(string(m[1])); obj != nil {
			return obj, nil
		}
	}

	scripts.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if obj := tryParseObject(s.Text()); obj != nil {
			found = obj
			return false
		}
		return true
	})
	if found != nil {
		return found, nil
	}

	return nil, ErrNoPayload
}

// tryParseObject parses text as a top-level JSON object, falling back
// to the substring between the first '{' and the last '}'. Anything
// that is not an object (arrays, scalars) is rejected.
func tryParseObject(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil
	}
	obj = nil
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil && obj != nil {
		return obj
	}
	return nil
}
