package extract

import (
	"github.com/aluiziolira/go-scrape-eats/jsontree"
	"github.com/aluiziolira/go-scrape-eats/models"
)

// priceSignalKeys only need to be present for an object to look like a
// menu item; their values are not validated here.
var priceSignalKeys = []string{"price", "priceString", "displayPrice", "unitPrice"}

// looksLikeMenuItem reports whether obj resembles a dish: a
// string-valued title or name plus at least one price signal key. An
// unparsable price still counts — presence is the signal.
func looksLikeMenuItem(obj map[string]any) bool {
	_, hasTitle := obj["title"].(string)
	if !hasTitle {
		_, hasTitle = obj["name"].(string)
	}
	if !hasTitle {
		return false
	}
	for _, k := range priceSignalKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// MenuItems collects every object anywhere under root that looks like
// a menu item. The scan covers the whole tree, not one subtree, and
// does not deduplicate: structurally distinct objects describing the
// same dish all appear.
func MenuItems(root any) []models.MenuItem {
	var items []models.MenuItem
	jsontree.Walk(root, func(obj map[string]any) bool {
		if looksLikeMenuItem(obj) {
			items = append(items, normalizeMenuItem(obj))
		}
		return false
	})
	return items
}

func normalizeMenuItem(obj map[string]any) models.MenuItem {
	return models.MenuItem{
		Title:       firstString(obj, "title", "name"),
		Description: firstString(obj, "description", "itemDescription"),
		Price:       Price(obj),
		PriceString: firstString(obj, "priceString", "displayPrice", "formattedPrice"),
		ImageURL:    firstString(obj, "imageUrl", "image"),
	}
}
