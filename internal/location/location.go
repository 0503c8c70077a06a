// Package location maps subjects to the rooms where accepted sessions take place.
package location

import "strings"

// Locator returns the meeting place for a subject, or "" when unknown.
type Locator interface {
	Locate(subjectName string) string
}

type Rule struct {
	Prefix   string
	Location string
}

// PrefixTable matches subject names case-insensitively by prefix; first match wins.
type PrefixTable []Rule

// Default is the campus room table.
var Default = PrefixTable{
	{Prefix: "math", Location: "Hume Hall 324 or 326"},
	{Prefix: "csci", Location: "Weir Hall 234"},
}

func (t PrefixTable) Locate(subjectName string) string {
	name := strings.ToLower(strings.TrimSpace(subjectName))
	if name == "" {
		return ""
	}
	for _, rule := range t {
		if strings.HasPrefix(name, strings.ToLower(rule.Prefix)) {
			return rule.Location
		}
	}
	return ""
}
