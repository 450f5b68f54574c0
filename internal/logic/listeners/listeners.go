// Package listeners derives the listeners property from
// advertised.listeners so the broker binds every interface.
package listeners

import "regexp"

var hostPattern = regexp.MustCompile(`://(.*?):`)

// Derive rewrites every listener host to 0.0.0.0, keeping protocol and port:
// PLAINTEXT://foo:9999,SSL://bar:9098 becomes
// PLAINTEXT://0.0.0.0:9999,SSL://0.0.0.0:9098.
func Derive(advertisedListeners string) string {
	return hostPattern.ReplaceAllString(advertisedListeners, "://0.0.0.0:")
}
