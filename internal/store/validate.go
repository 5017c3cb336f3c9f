package store

// ValidatePrompt checks that title and content are present and returns the
// first missing one as a *ValidationError. Any non-empty string is accepted,
// whitespace included; size is bounded by the transport, not the store.
func ValidatePrompt(title, content string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if content == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	return nil
}
