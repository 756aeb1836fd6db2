package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned by SignUp when the email is registered.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrTooManyAttempts is returned when sign-in attempts are throttled.
	ErrTooManyAttempts = errors.New("too many sign-in attempts, try again shortly")
	// ErrInvalidInput is wrapped by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports a form field that failed validation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// FieldErrors returns every ValidationError in err, including those
// combined with errors.Join.
func FieldErrors(err error) []*ValidationError {
	var out []*ValidationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		out = append(out, ve)
	}
	return out
}
