package services

import "strings"

// Major freight hubs used by the coarse city heuristic.
var knownHubs = []string{
	"mumbai",
	"pune",
	"delhi",
	"bangalore",
	"chennai",
	"hyderabad",
	"kolkata",
	"nagpur",
	"jaipur",
	"ahmedabad",
	"surat",
	"vadodara",
}

// sharesKnownHub reports whether both city strings mention the same known hub.
//
// This is a deliberately crude substring heuristic carried over from the
// original matching behavior ("mumbai" appearing in both strings counts as a
// match). It is NOT a geographic proximity check and must not be replaced
// with one without revisiting selection behavior.
func sharesKnownHub(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	for _, hub := range knownHubs {
		if strings.Contains(la, hub) && strings.Contains(lb, hub) {
			return true
		}
	}
	return false
}
