package types

// redactedPlaceholder replaces secret values in logs and serialization.
const redactedPlaceholder = "***REDACTED***"

var redactedJSON = []byte(`"***REDACTED***"`)

// SecretString holds a credential such as the ntfy bearer token. It redacts
// itself when formatted with fmt or encoded as JSON, so passing it to a
// structured logger never leaks the value.
//
// Use Unmask() only where the plaintext is genuinely required, e.g. when
// building the Authorization header.
type SecretString string

// String returns a redacted placeholder instead of the raw value.
func (s SecretString) String() string {
	return redactedPlaceholder
}

// MarshalJSON returns the redacted placeholder as a JSON string.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return redactedJSON, nil
}

// Unmask returns the raw plaintext value of the secret.
func (s SecretString) Unmask() string {
	return string(s)
}

// Len reports the length of the plaintext. Safe to log.
func (s SecretString) Len() int {
	return len(s)
}
