package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips unsafe markup from user-supplied content to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
