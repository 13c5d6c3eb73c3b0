package errors

// ValidationError reports a bad constructor argument or CLI flag: which
// field, which rule it broke, what was provided, and (where it makes sense)
// what was expected instead.
type ValidationError struct {
	*baseError

	field    string
	rule     string
	provided any
	expected any
}

// NewValidationError builds a ValidationError under code with msg as its
// Error() text.
func NewValidationError(cause error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(cause, code, msg)}
}

func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField records which field or flag failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule records which constraint was violated ("required", "range", ...).
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided records the value that failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithExpected records what a valid value would have looked like.
func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

func (ve *ValidationError) Field() string { return ve.field }
func (ve *ValidationError) Rule() string  { return ve.rule }
func (ve *ValidationError) Provided() any { return ve.provided }
func (ve *ValidationError) Expected() any { return ve.expected }

// NewRequiredFieldError builds the error a constructor returns when a
// mandatory dependency (a logger, a positive size, ...) is missing.
func NewRequiredFieldError(field string) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "required field is missing or empty").
		WithField(field).WithRule("required")
}

// NewFieldFormatError builds the error for a value that doesn't match an
// expected shape (an address, a name, ...).
func NewFieldFormatError(field string, provided any, expected string) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "field value does not match expected format").
		WithField(field).WithRule("format").WithProvided(provided).WithExpected(expected)
}

// NewFieldRangeError builds the error for a numeric field outside [min, max].
func NewFieldRangeError(field string, provided any, min, max any) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "field value is outside acceptable range").
		WithField(field).WithRule("range").WithProvided(provided).
		WithDetail("minValue", min).WithDetail("maxValue", max)
}

// NewConfigurationValidationError builds the error for an Options value that
// fails a cross-field integrity check.
func NewConfigurationValidationError(field, issue string) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "configuration validation failed").
		WithField(field).WithRule("configuration_integrity").WithDetail("validationIssue", issue)
}
