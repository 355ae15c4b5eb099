// Package models defines data structures for the scraper.
package models

import "time"

// Restaurant is the normalized document produced for one listing page.
// Every field except URL is best-effort: the source payload has no
// stable schema, so absent fields stay at their zero value and the
// document is still considered valid output.
type Restaurant struct {
	LogoURL      string        `json:"logoUrl,omitempty"`
	Name         string        `json:"name"`
	Categories   []string      `json:"categories,omitempty"`
	Rating       *float64      `json:"rating,omitempty"`
	ReviewCount  *int          `json:"reviewCount,omitempty"`
	CurrencyCode string        `json:"currencyCode,omitempty"`
	Location     Location      `json:"location"`
	PhoneNumber  string        `json:"phoneNumber,omitempty"`
	UUID         string        `json:"uuid,omitempty"`
	Hours        []DaySchedule `json:"hours"`
	URL          string        `json:"url"`
	MenuItems    []MenuItem    `json:"menuItems"`
	ScrapedAt    time.Time     `json:"scrapedAt"`
}

// Location describes where the restaurant is. Latitude and longitude
// are pointers so "not found" is distinguishable from zero coordinates;
// when set, both were read together from the same payload object.
type Location struct {
	Address      string   `json:"address,omitempty"`
	City         string   `json:"city,omitempty"`
	PostalCode   string   `json:"postalCode,omitempty"`
	Country      string   `json:"country,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationType string   `json:"locationType"`
}

// DaySchedule holds the opening sections for one day (or day range).
type DaySchedule struct {
	DayRange     string         `json:"dayRange"`
	SectionHours []SectionHours `json:"sectionHours"`
}

// SectionHours is one contiguous open interval within a day, in
// minutes since midnight plus the human-readable 12-hour form.
type SectionHours struct {
	StartTime          int    `json:"startTime"`
	EndTime            int    `json:"endTime"`
	SectionTitle       string `json:"sectionTitle"`
	StartTimeFormatted string `json:"startTimeFormatted"`
	EndTimeFormatted   string `json:"endTimeFormatted"`
}

// MenuItem is an object from the payload that looked like a dish:
// it carried a title and some kind of price information. Price is nil
// when the price field was present but unparsable.
type MenuItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price"`
	PriceString string   `json:"priceString,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// ScrapeResult holds the overall result of a scraping run.
type ScrapeResult struct {
	Documents    int
	StartTime    time.Time
	EndTime      time.Time
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
	RetryCount   int
	RequestCount int
	CacheHits    int
}
