package domain

// Result is the value every session operation returns. Operations never leak
// backend or storage errors to callers; failures are folded into a Result
// carrying a human-readable message and, where applicable, field-level
// validation errors for inline rendering.
type Result struct {
	Success bool
	// Message is the backend-provided failure message, or a generic
	// per-operation fallback when the backend gave none.
	Message string
	// Errors maps field names to validation messages (register/update).
	Errors map[string][]string
}

// OK is the canonical success result.
func OK() Result {
	return Result{Success: true}
}

// Fail builds a failure result, preferring the backend message over fallback.
func Fail(message, fallback string) Result {
	if message == "" {
		message = fallback
	}
	return Result{Success: false, Message: message}
}

// FailWithErrors attaches field-level validation errors to a failure.
func FailWithErrors(message, fallback string, errs map[string][]string) Result {
	r := Fail(message, fallback)
	r.Errors = errs
	return r
}
