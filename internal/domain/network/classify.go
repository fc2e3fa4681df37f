package network

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var defaultNetworkKeywords = []string{
	"aile",
	"family",
	"arkadaş",
	"arkadas",
	"friend",
}

// IsDefaultName reports whether name marks a family or friends network.
// Both Turkish and root casing are tried so that "AİLE" and "FRIENDS" fold
// to their keyword.
func IsDefaultName(name string) bool {
	folded := []string{
		cases.Lower(language.Turkish).String(name),
		cases.Lower(language.Und).String(name),
	}
	for _, candidate := range folded {
		for _, keyword := range defaultNetworkKeywords {
			if strings.Contains(candidate, keyword) {
				return true
			}
		}
	}
	return false
}
