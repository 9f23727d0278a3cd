// Package secrets stores and retrieves the Todoist API token.
//
// Lookup order: TODOIST_API_KEY environment variable, then the
// OS-native keychain, then a plain file (~/.todoist-token, mode 0600)
// as a last resort. Storage prefers the keychain and falls back to
// the file.
package secrets

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	// EnvVar is the environment variable checked first.
	EnvVar = "TODOIST_API_KEY"

	// KeyringService is the keychain service name the token is stored under.
	KeyringService = "todoist-api-key"
)

// Source identifies where a token came from.
type Source string

const (
	SourceNone     Source = ""
	SourceEnv      Source = "environment"
	SourceKeychain Source = "keychain"
	SourceFile     Source = "file"
)

// tokenPath is resolved per call so tests can redirect $HOME.
func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todoist-token"
	}
	return filepath.Join(home, ".todoist-token")
}

func username() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// Token returns the stored API token and its source. A missing token
// is not an error: it returns ("", SourceNone, nil). Keychain access
// problems (locked, denied) are logged as warnings and the lookup
// falls through to the file backend.
func Token() (string, Source, error) {
	if t := os.Getenv(EnvVar); t != "" {
		return t, SourceEnv, nil
	}

	t, err := keyring.Get(KeyringService, username())
	if err == nil && t != "" {
		return t, SourceKeychain, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		warnKeyring("read", err)
	}

	data, err := os.ReadFile(tokenPath())
	if err == nil {
		if t := strings.TrimSpace(string(data)); t != "" {
			return t, SourceFile, nil
		}
	}

	return "", SourceNone, nil
}

// Store persists the token, preferring the keychain and falling back
// to the token file. Returns the backend that accepted it.
func Store(token string) (Source, error) {
	if err := keyring.Set(KeyringService, username(), token); err == nil {
		return SourceKeychain, nil
	} else {
		warnKeyring("write", err)
	}

	if err := os.WriteFile(tokenPath(), []byte(token+"\n"), 0600); err != nil {
		return SourceNone, err
	}
	return SourceFile, nil
}

// Delete removes the token from the keychain and the token file.
// Absence is not an error.
func Delete() error {
	var firstErr error

	if err := keyring.Delete(KeyringService, username()); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		warnKeyring("delete", err)
		firstErr = err
	}

	if err := os.Remove(tokenPath()); err != nil && !os.IsNotExist(err) {
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// warnKeyring surfaces keychain problems in actionable terms so the
// user can tell a locked keychain from a missing token.
func warnKeyring(op string, err error) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "locked"):
		logrus.Warnf("keychain is locked; unlock it or set %s", EnvVar)
	case strings.Contains(msg, "denied"):
		logrus.Warnf("keychain access denied; check your OS privacy settings or set %s", EnvVar)
	default:
		logrus.Warnf("keychain %s failed: %v", op, err)
	}
}
