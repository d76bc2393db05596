// Package secrets stores portal credentials in the OS credential vault
// (Keychain, Credential Manager, or Secret Service) so they stay off disk.
package secrets

import "github.com/zalando/go-keyring"

const service = "LETUS_CHECKER"

const (
	KeyUsername  = "USERNAME"
	KeyPassword  = "PASSWORD"
	KeyLineToken = "LINE_TOKEN"
)

// Save writes one secret under the checker's service name.
func Save(key, value string) error {
	return keyring.Set(service, key, value)
}

// Get reads one secret. The empty string means the key is not stored.
func Get(key string) string {
	v, err := keyring.Get(service, key)
	if err != nil {
		return ""
	}
	return v
}

// Clear removes all stored secrets. Missing keys are not an error.
func Clear() error {
	var firstErr error
	for _, key := range []string{KeyUsername, KeyPassword, KeyLineToken} {
		err := keyring.Delete(service, key)
		if err != nil && err != keyring.ErrNotFound && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
