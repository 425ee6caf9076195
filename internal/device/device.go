// Package device classifies the client device so defaults and export
// ordering can adapt to compact (mobile-class) screens.
package device

import "regexp"

// compactWidth is the viewport breakpoint below which a device is treated
// as compact.
const compactWidth = 768

var mobileUARegex = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// Classify reports whether the client is a compact device, from its
// user-agent string and viewport width in CSS pixels. A zero width means
// the client did not report one and only the user agent is considered.
func Classify(userAgent string, viewportWidth int) bool {
	if mobileUARegex.MatchString(userAgent) {
		return true
	}
	return viewportWidth > 0 && viewportWidth < compactWidth
}
