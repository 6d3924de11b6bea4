package pattern

import (
	"sort"
	"strings"
)

// Keyword categories recognized by the analyzers.
const (
	CategoryWork          = "work"
	CategoryCommunication = "communication"
	CategoryBrowser       = "browser"
	CategoryDistraction   = "distraction"
	CategoryProductive    = "productive"
)

// KeywordTable maps an app-id substring to a category. It consolidates
// the name-matching heuristics used by DeathLoopDetector and
// ClusterBuilder into one injectable table; matching is case-insensitive
// substring containment.
type KeywordTable map[string]string

// DefaultKeywordTable returns a starter table. Callers are expected to
// replace or extend it from configuration.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		"code":     CategoryWork,
		"terminal": CategoryWork,
		"xcode":    CategoryWork,
		"intellij": CategoryWork,
		"figma":    CategoryWork,
		"notion":   CategoryWork,
		"docs":     CategoryWork,
		"slack":    CategoryCommunication,
		"discord":  CategoryCommunication,
		"mail":     CategoryCommunication,
		"messages": CategoryCommunication,
		"telegram": CategoryCommunication,
		"zoom":     CategoryCommunication,
		"chrome":   CategoryBrowser,
		"safari":   CategoryBrowser,
		"firefox":  CategoryBrowser,
		"edge":     CategoryBrowser,
		"twitter":  CategoryDistraction,
		"reddit":   CategoryDistraction,
		"youtube":  CategoryDistraction,
		"tiktok":   CategoryDistraction,
		"instagram": CategoryDistraction,
	}
}

// Category returns the category of the first matching keyword for the
// given app id. Keywords are checked in sorted order so lookups are
// deterministic when several keywords match.
func (t KeywordTable) Category(appID string) (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	lower := strings.ToLower(appID)
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(lower, k) {
			return t[k], true
		}
	}
	return "", false
}

// Matches reports whether the app id matches any keyword of the
// given category.
func (t KeywordTable) Matches(appID, category string) bool {
	lower := strings.ToLower(appID)
	for k, cat := range t {
		if cat == category && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// MatchCount returns how many of the given apps match the category.
func (t KeywordTable) MatchCount(apps []string, category string) int {
	n := 0
	for _, app := range apps {
		if t.Matches(app, category) {
			n++
		}
	}
	return n
}

// Hint derives the weak, overridable context hint for an app pair.
// Distraction dominates, then communication, then productive work;
// pairs with no matching keyword carry no hint.
func (t KeywordTable) Hint(appA, appB string) string {
	apps := []string{appA, appB}
	switch {
	case t.MatchCount(apps, CategoryDistraction) > 0:
		return CategoryDistraction
	case t.MatchCount(apps, CategoryCommunication) > 0:
		return CategoryCommunication
	case t.MatchCount(apps, CategoryWork) > 0 || t.MatchCount(apps, CategoryProductive) > 0:
		return CategoryProductive
	default:
		return ""
	}
}
