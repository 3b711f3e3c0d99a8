package deeplink

import "regexp"

// Platform is the coarse device family derived from a user agent.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformOther   Platform = "other"
)

var (
	appleMobilePattern = regexp.MustCompile(`(?i)iPhone|iPad|iPod`)
	androidPattern     = regexp.MustCompile(`(?i)Android`)
	mobilePattern      = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
)

// ClassifyPlatform maps a user agent string to a Platform.
func ClassifyPlatform(userAgent string) Platform {
	switch {
	case appleMobilePattern.MatchString(userAgent):
		return PlatformIOS
	case androidPattern.MatchString(userAgent):
		return PlatformAndroid
	default:
		return PlatformOther
	}
}

// IsMobile reports whether the user agent belongs to a phone or tablet.
func IsMobile(userAgent string) bool {
	return mobilePattern.MatchString(userAgent)
}
