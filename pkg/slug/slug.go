package slug

import "regexp"

// MaxLength bounds a slug so it stays usable as a path segment and a CMS
// filter value.
const MaxLength = 128

var validRegexp = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// Valid reports whether s is a URL-safe slug: one or more RFC 3986
// unreserved characters (ASCII letters, digits, '-', '.', '_', '~'). The
// dot segments "." and ".." are rejected because they are not addressable
// as a path segment.
//
//	Valid("air-max-90")  == true
//	Valid("Air_Max-90")  == true
//	Valid("Air Max")     == false
//	Valid("..")          == false
func Valid(s string) bool {
	if s == "" || len(s) > MaxLength || s == "." || s == ".." {
		return false
	}
	return validRegexp.MatchString(s)
}
