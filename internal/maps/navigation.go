package maps

import (
	"net/url"
)

// NavigationURL builds a map-provider deep link for turn-by-turn navigation
// to the given address. Works without an API key.
func NavigationURL(address string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", address)
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
