package utils

// ClipChars returns s cut to at most maxChars bytes, with no ellipsis.
// Prompt fields are clipped this way so the context window budget holds.
// If maxChars is 0 or negative, returns s unchanged.
func ClipChars(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars]
}

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
