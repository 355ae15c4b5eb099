package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Target is one URL to scrape plus its per-URL menu toggle.
type Target struct {
	URL        string
	ScrapeMenu bool
}

// LoadTargets reads the input URL list. The file is a JSON array whose
// elements are either plain URL strings or objects with a "url" key
// and an optional "scrapeMenu" override; entries without the override
// inherit includeMenuDefault. Elements of any other shape are skipped,
// but a file that is not an array at all is an error.
func LoadTargets(path string, includeMenuDefault bool) ([]Target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("input file %s must be a JSON array of URLs or {url, scrapeMenu} objects", path)
	}

	targets := make([]Target, 0, len(entries))
	for _, entry := range entries {
		var url string
		if err := json.Unmarshal(entry, &url); err == nil {
			targets = append(targets, Target{URL: url, ScrapeMenu: includeMenuDefault})
			continue
		}

		var obj struct {
			URL        string `json:"url"`
			ScrapeMenu *bool  `json:"scrapeMenu"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil || obj.URL == "" {
			continue
		}
		scrapeMenu := includeMenuDefault
		if obj.ScrapeMenu != nil {
			scrapeMenu = *obj.ScrapeMenu
		}
		targets = append(targets, Target{URL: obj.URL, ScrapeMenu: scrapeMenu})
	}
	return targets, nil
}
