package shared

// UsageError is a fatal, user-facing condition reported as a single line.
type UsageError struct {
	Message string
}

// Error returns the message.
func (usageError UsageError) Error() string {
	return usageError.Message
}
