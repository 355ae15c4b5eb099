package extract

import (
	"github.com/aluiziolira/go-scrape-eats/jsontree"
	"github.com/aluiziolira/go-scrape-eats/models"
)

// Location finds the first object (depth-first) that carries numeric
// latitude and longitude together and normalizes it. Coordinates are
// never stitched from two different objects: either one object has
// both, or the record has neither. With no candidate the record is
// empty except for the "DEFAULT" location type.
func Location(node any) models.Location {
	var src map[string]any
	jsontree.Walk(node, func(obj map[string]any) bool {
		_, okLat := asFloat(obj["latitude"])
		_, okLon := asFloat(obj["longitude"])
		if okLat && okLon {
			src = obj
			return true
		}
		return false
	})

	loc := models.Location{LocationType: "DEFAULT"}
	if src == nil {
		return loc
	}

	loc.Address = firstString(src, "address", "streetAddress", "line1")
	loc.City = firstString(src, "city", "town", "locality")
	loc.PostalCode = firstString(src, "postalCode", "zipCode")
	loc.Country = firstString(src, "country", "countryCode")
	if t := firstString(src, "locationType", "type"); t != "" {
		loc.LocationType = t
	}

	lat, _ := asFloat(src["latitude"])
	lon, _ := asFloat(src["longitude"])
	loc.Latitude = &lat
	loc.Longitude = &lon
	return loc
}
