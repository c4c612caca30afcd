package storage

import (
	"fmt"
	"regexp"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-.]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9-.] with "_"
// so the name is safe as part of an object key.
func SanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// ObjectKey builds the bucket key for an uploaded résumé:
// resumes/{userId}/{epochMillis}_{sanitizedFileName}. The millisecond
// timestamp keeps repeated uploads of the same file from colliding.
func ObjectKey(userID, fileName string, now time.Time) string {
	return fmt.Sprintf("resumes/%s/%d_%s", userID, now.UnixMilli(), SanitizeFileName(fileName))
}
