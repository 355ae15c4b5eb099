// Package extract turns an undocumented JSON payload into a normalized
// restaurant document.
//
// The payload shape is versionless and drifts between deployments, so
// nothing here decodes into fixed structs. Each extractor is an
// independent heuristic built on jsontree: ranked key-name matching
// plus recursive fallback search. Extractors never fail; a field that
// cannot be resolved stays at its zero value and the partial document
// is still valid output.
package extract

import (
	"time"

	"github.com/aluiziolira/go-scrape-eats/jsontree"
	"github.com/aluiziolira/go-scrape-eats/models"
)

// restaurantSignalKeys mark an object as describing a merchant entity.
var restaurantSignalKeys = []string{
	"storeUuid",
	"restaurantUuid",
	"restaurantId",
	"merchant",
}

// LocateRestaurant returns the first object in traversal order that
// carries one of the restaurant identity keys. When no object
// qualifies it falls back to the root itself (if the root is an
// object), so downstream extractors still have something to search.
func LocateRestaurant(root any) map[string]any {
	var found map[string]any
	jsontree.Walk(root, func(obj map[string]any) bool {
		for _, k := range restaurantSignalKeys {
			if _, ok := obj[k]; ok {
				found = obj
				return true
			}
		}
		return false
	})
	if found != nil {
		return found
	}
	if m, ok := root.(map[string]any); ok {
		return m
	}
	return nil
}

// BuildDocument assembles a restaurant document from a decoded payload.
// Identity fields are resolved against the restaurant node when one was
// located, else against the whole payload; the logo is always resolved
// against the whole payload because it tends to live outside the
// merchant object.
func BuildDocument(url string, payload any, includeMenu bool) *models.Restaurant {
	node := LocateRestaurant(payload)

	// scope is what field lookups search: the narrowed restaurant
	// subtree when we found one, the full payload otherwise.
	scope := payload
	if node != nil {
		scope = node
	}

	doc := &models.Restaurant{
		LogoURL:      stringField(payload, "logoUrl", "heroImage", "imageUrl"),
		Name:         stringField(scope, "name", "title"),
		Categories:   Categories(scope),
		Rating:       floatField(scope, "rating", "averageRating"),
		ReviewCount:  intField(scope, "reviewCount", "ratingCount"),
		CurrencyCode: stringField(scope, "currencyCode", "currency"),
		Location:     Location(scope),
		PhoneNumber:  stringField(scope, "phoneNumber", "phone", "contactPhone"),
		UUID:         stringField(scope, "uuid", "storeUuid", "restaurantUuid"),
		Hours:        Hours(scope),
		URL:          url,
		ScrapedAt:    time.Now().UTC(),
	}
	if includeMenu {
		doc.MenuItems = MenuItems(scope)
	}
	return doc
}

// Categories finds the first usable categories list: either an array
// of strings, or an array of objects whose title/name fields yield at
// least one string. An empty candidate does not stop the search.
func Categories(node any) []string {
	var out []string
	jsontree.Walk(node, func(obj map[string]any) bool {
		raw, ok := obj["categories"].([]any)
		if !ok {
			return false
		}
		if titles := categoryTitles(raw); len(titles) > 0 {
			out = titles
			return true
		}
		return false
	})
	return out
}

func categoryTitles(raw []any) []string {
	allStrings := true
	for _, v := range raw {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings && len(raw) > 0 {
		out := make([]string, len(raw))
		for i, v := range raw {
			out[i] = v.(string)
		}
		return out
	}

	// Sometimes categories are objects with a title or name.
	var titles []string
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			if title := firstString(m, "title", "name"); title != "" {
				titles = append(titles, title)
			}
		}
	}
	return titles
}
