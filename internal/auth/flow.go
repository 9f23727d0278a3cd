// Package auth implements the Todoist OAuth2 authorization-code flow.
//
// Two modes: automatic (a one-shot localhost callback listener on a
// fixed port) and manual (print the URL, accept a pasted redirect for
// headless machines). Both verify the CSRF state parameter before the
// code is exchanged for a token.
package auth

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultPort must match the redirect URI registered with the
	// Todoist app. There is no fallback: if the port is taken, the
	// flow fails fast instead of silently breaking the redirect.
	DefaultPort = 8080

	// Scope requested from Todoist.
	Scope = "data:read_write"

	// CallbackTimeout bounds the wait for the browser redirect.
	CallbackTimeout = 5 * time.Minute

	// exchangeTimeout bounds the server-to-server token exchange.
	exchangeTimeout = 30 * time.Second
)

// Endpoint is Todoist's OAuth2 endpoint. The token endpoint takes the
// client credentials in the POST body, not basic auth.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://todoist.com/oauth/authorize",
	TokenURL:  "https://todoist.com/oauth/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// ErrStateMismatch indicates the callback carried a state parameter
// that does not match the one this flow generated.
var ErrStateMismatch = errors.New("state parameter mismatch (possible CSRF)")

// Flow runs one OAuth authorization-code exchange.
type Flow struct {
	ClientID     string
	ClientSecret string

	// Port for the local callback listener. DefaultPort if zero.
	Port int

	// Manual switches to the print-URL-and-paste flow.
	Manual bool

	// Code is a pre-supplied redirect URL or bare code for
	// non-interactive manual mode. Implies Manual.
	Code string

	// In is read for the pasted redirect and confirmations.
	In io.Reader

	// Err receives prompts and progress; the flow writes nothing to stdout.
	Err io.Writer

	// Endpoint overrides Todoist's endpoints. Meant for tests.
	Endpoint oauth2.Endpoint

	// CallbackTimeout overrides the redirect wait. Meant for tests.
	CallbackTimeout time.Duration
}

func (f *Flow) endpoint() oauth2.Endpoint {
	if f.Endpoint.TokenURL != "" {
		return f.Endpoint
	}
	return Endpoint
}

func (f *Flow) port() int {
	if f.Port != 0 {
		return f.Port
	}
	return DefaultPort
}

func (f *Flow) callbackTimeout() time.Duration {
	if f.CallbackTimeout != 0 {
		return f.CallbackTimeout
	}
	return CallbackTimeout
}

// Run executes the flow and returns the access token.
func (f *Flow) Run(ctx context.Context) (string, error) {
	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	redirectURI := fmt.Sprintf("http://localhost:%d/callback", f.port())
	conf := &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		Endpoint:     f.endpoint(),
		RedirectURL:  redirectURI,
		Scopes:       []string{Scope},
	}
	authURL := conf.AuthCodeURL(state)

	var code string
	if f.Manual || f.Code != "" {
		code, err = f.manualFlow(authURL, state)
	} else {
		code, err = f.autoFlow(ctx, authURL, state)
	}
	if err != nil {
		return "", err
	}

	fmt.Fprintln(f.Err, "Exchanging authorization code for token...")
	exCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := conf.Exchange(exCtx, code)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	return token.AccessToken, nil
}

// newState generates a CSRF state token (32 random bytes, hex encoded).
func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type callbackResult struct {
	code string
	err  error
}

// autoFlow binds the fixed callback port, prints the authorization
// URL, and waits for exactly one redirect.
func (f *Flow) autoFlow(ctx context.Context, authURL, state string) (string, error) {
	addr := fmt.Sprintf("localhost:%d", f.port())
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("port %d is in use (needed for the OAuth callback): free it or use --manual", f.port())
	}
	defer listener.Close()

	resultCh := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if errParam := q.Get("error"); errParam != "" {
			writeErrorPage(w, "Authorization was denied: "+errParam)
			resultCh <- callbackResult{err: fmt.Errorf("authorization denied: %s", errParam)}
			return
		}
		if q.Get("state") != state {
			writeErrorPage(w, "Security error: state parameter mismatch.")
			resultCh <- callbackResult{err: ErrStateMismatch}
			return
		}
		code := q.Get("code")
		if code == "" {
			writeErrorPage(w, "No authorization code in callback.")
			resultCh <- callbackResult{err: errors.New("no authorization code in callback")}
			return
		}
		writeSuccessPage(w)
		resultCh <- callbackResult{code: code}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			resultCh <- callbackResult{err: err}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	fmt.Fprintln(f.Err, "Open this URL in your browser to authorize:")
	fmt.Fprintln(f.Err, authURL)

	select {
	case res := <-resultCh:
		return res.code, res.err
	case <-time.After(f.callbackTimeout()):
		return "", errors.New("timed out waiting for the OAuth callback")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// manualFlow prints the authorization URL and reads the pasted
// redirect URL (or bare code). A state mismatch in the pasted URL
// gets a prominent warning and requires explicit confirmation; with
// a pre-supplied code the flow aborts instead.
func (f *Flow) manualFlow(authURL, state string) (string, error) {
	reader := bufio.NewReader(f.In)

	fmt.Fprintln(f.Err, "1. Open this URL in your browser:")
	fmt.Fprintln(f.Err)
	fmt.Fprintf(f.Err, "   %s\n", authURL)
	fmt.Fprintln(f.Err)
	fmt.Fprintln(f.Err, "2. Sign in and click Authorize.")
	fmt.Fprintln(f.Err, "3. The redirect will fail to load; copy the entire URL from the address bar.")
	fmt.Fprintln(f.Err, "4. Paste it below (or just the 'code' parameter value):")

	input := f.Code
	if input == "" {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		input = strings.TrimSpace(line)
	}
	if input == "" {
		return "", errors.New("no input provided")
	}

	code, urlState := ParseRedirect(input)
	if code == "" {
		return "", errors.New("could not find an authorization code in the input")
	}

	if urlState != "" && urlState != state {
		fmt.Fprintln(f.Err)
		fmt.Fprintln(f.Err, "SECURITY WARNING: state parameter mismatch detected.")
		fmt.Fprintln(f.Err, "This can mean a CSRF attack, or a URL pasted from an older auth attempt.")
		fmt.Fprintf(f.Err, "Expected state: %s...\n", state[:16])
		fmt.Fprintf(f.Err, "Received state: %s...\n", truncate(urlState, 16))

		if f.Code != "" {
			// Non-interactive: nobody can confirm, so abort.
			return "", ErrStateMismatch
		}

		fmt.Fprintln(f.Err)
		fmt.Fprintln(f.Err, "Continue anyway? This is safe only if you just started this auth yourself.")
		fmt.Fprint(f.Err, "Type 'yes' to continue, anything else to abort: ")
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
			return "", ErrStateMismatch
		}
		fmt.Fprintln(f.Err, "Continuing despite state mismatch (user confirmed).")
	}

	return code, nil
}

// ParseRedirect extracts the authorization code and state from a
// pasted redirect URL. Non-URL input is treated as a bare code.
func ParseRedirect(input string) (code, state string) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if u, err := url.Parse(input); err == nil {
			q := u.Query()
			if c := q.Get("code"); c != "" {
				return c, q.Get("state")
			}
		}
	}
	return input, ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
