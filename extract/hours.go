package extract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-eats/jsontree"
	"github.com/aluiziolira/go-scrape-eats/models"
)

// scheduleKeys are tried as full-tree searches, one key at a time, so
// an openingHours anywhere in the payload beats a schedule anywhere.
var scheduleKeys = []string{"openingHours", "schedule", "hoursOfOperation"}

// Hours builds the normalized opening-hours list.
//
// A `hours` key resolving to an array of objects is assumed to already
// be in the published schedule shape and is passed through. Otherwise
// the schedule keys are searched in priority order; a schedule object
// keyed by day name is normalized section by section, and any other
// schedule shape (including arrays) yields an empty slice — unhandled,
// not an error. Day order in the output is sorted by day key so runs
// are deterministic.
func Hours(node any) []models.DaySchedule {
	if raw, ok := jsontree.FindKey(node, "hours"); ok {
		if arr, ok := raw.([]any); ok && allObjects(arr) {
			return passThroughSchedules(arr)
		}
	}

	var schedule any
	for _, k := range scheduleKeys {
		if v, ok := jsontree.FindKey(node, k); ok && v != nil {
			schedule = v
			break
		}
	}
	byDay, ok := schedule.(map[string]any)
	if !ok {
		return nil
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var out []models.DaySchedule
	for _, day := range days {
		sections, ok := byDay[day].([]any)
		if !ok {
			continue
		}
		var normalized []models.SectionHours
		for _, raw := range sections {
			section, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			start, startFmt, okStart := parseClock(pick(section, "start", "openTime"))
			end, endFmt, okEnd := parseClock(pick(section, "end", "closeTime"))
			if !okStart || !okEnd {
				continue
			}
			title := firstString(section, "sectionTitle", "label")
			if title == "" {
				title = "Open"
			}
			normalized = append(normalized, models.SectionHours{
				StartTime:          start,
				EndTime:            end,
				SectionTitle:       title,
				StartTimeFormatted: startFmt,
				EndTimeFormatted:   endFmt,
			})
		}
		if len(normalized) > 0 {
			out = append(out, models.DaySchedule{
				DayRange:     day,
				SectionHours: normalized,
			})
		}
	}
	return out
}

// parseClock resolves a section boundary to minutes since midnight
// plus its 12-hour display form. Numbers are taken directly as
// minutes. Strings try the 12-hour form when an AM/PM marker is
// present, else 24-hour HH:MM. Failures return ok=false and never
// propagate further.
func parseClock(v any) (int, string, bool) {
	if n, ok := asFloat(v); ok {
		m := int(n)
		return m, formatMinutes(m), true
	}

	s, ok := v.(string)
	if !ok {
		return 0, "", false
	}
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)

	var parsed time.Time
	var err error
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		parsed, err = time.Parse("3:04 PM", upper)
	} else {
		parsed, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, "", false
	}
	m := parsed.Hour()*60 + parsed.Minute()
	return m, formatMinutes(m), true
}

// formatMinutes renders minutes-since-midnight as a 12-hour clock
// string, wrapping the hour into the 0-23 range first.
func formatMinutes(m int) string {
	h := (m / 60) % 24
	minute := m % 60

	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, meridiem)
}

func allObjects(arr []any) bool {
	for _, v := range arr {
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func pick(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// passThroughSchedules carries a pre-normalized hours array into the
// typed schedule shape without touching the values. Declared fields
// copy through field-for-field; nothing is validated or defaulted.
func passThroughSchedules(arr []any) []models.DaySchedule {
	out := make([]models.DaySchedule, 0, len(arr))
	for _, raw := range arr {
		m := raw.(map[string]any)
		day := models.DaySchedule{}
		if s, ok := m["dayRange"].(string); ok {
			day.DayRange = s
		}
		if sections, ok := m["sectionHours"].([]any); ok {
			for _, rawSection := range sections {
				sm, ok := rawSection.(map[string]any)
				if !ok {
					continue
				}
				section := models.SectionHours{}
				if n, ok := asFloat(sm["startTime"]); ok {
					section.StartTime = int(n)
				}
				if n, ok := asFloat(sm["endTime"]); ok {
					section.EndTime = int(n)
				}
				if s, ok := sm["sectionTitle"].(string); ok {
					section.SectionTitle = s
				}
				if s, ok := sm["startTimeFormatted"].(string); ok {
					section.StartTimeFormatted = s
				}
				if s, ok := sm["endTimeFormatted"].(string); ok {
					section.EndTimeFormatted = s
				}
				day.SectionHours = append(day.SectionHours, section)
			}
		}
		out = append(out, day)
	}
	return out
}
