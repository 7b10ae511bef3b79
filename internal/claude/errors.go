package claude

import "fmt"

// configError signals that the home directory (and therefore the settings
// path) cannot be resolved. The only fatal configuration-layer fault.
type configError struct{ msg string }

func (e configError) Error() string { return e.msg }

// ErrConfig constructs a configError.
func ErrConfig(msg string) error { return configError{msg: msg} }

// IsConfigError reports whether err is a configuration-layer fault.
func IsConfigError(err error) bool {
	_, ok := err.(configError)
	return ok
}

// credentialError signals that no usable API key was found in any layer.
// Raised before any network I/O so the HTTP layer can return 401.
type credentialError struct{}

func (credentialError) Error() string {
	return "no API key found for Claude: configure your CLI or set the ANTHROPIC_API_KEY environment variable"
}

// ErrNoCredentials constructs a credentialError.
func ErrNoCredentials() error { return credentialError{} }

// IsCredentialError reports whether err indicates a missing API key.
func IsCredentialError(err error) bool {
	_, ok := err.(credentialError)
	return ok
}

// apiError carries a non-success upstream HTTP response verbatim.
type apiError struct {
	status int
	body   string
}

func (e apiError) Error() string { return fmt.Sprintf("API error %d: %s", e.status, e.body) }

// StatusCode exposes the upstream status so the HTTP layer can map it.
func (e apiError) StatusCode() int { return e.status }

// ErrAPI constructs an apiError from an upstream status and body.
func ErrAPI(status int, body string) error { return apiError{status: status, body: body} }

// IsAPIError reports whether err is a non-success upstream response.
func IsAPIError(err error) bool {
	_, ok := err.(apiError)
	return ok
}

// transportError wraps a DNS/connect/read failure on the chat path.
type transportError struct{ err error }

func (e transportError) Error() string { return "request failed: " + e.err.Error() }
func (e transportError) Unwrap() error { return e.err }

// ErrTransport wraps err as a transportError.
func ErrTransport(err error) error { return transportError{err: err} }

// IsTransportError reports whether err is a transport-level failure.
func IsTransportError(err error) bool {
	_, ok := err.(transportError)
	return ok
}
