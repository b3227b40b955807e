package checkout

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Govind-619/DonateHub/utils"
)

// Loader makes a checkout script available in the environment
type Loader interface {
	// EnsureLoaded reports whether the script at url is active once it
	// returns. It never returns an error; any failure is false.
	EnsureLoaded(ctx context.Context, url string) bool
}

// HTTPLoader fetches scripts over HTTP and activates the matching provider
// in its Environment
type HTTPLoader struct {
	env    *Environment
	client *http.Client
}

// NewHTTPLoader returns a loader bound to env. A nil client gets a default
// one with a 15 second timeout.
func NewHTTPLoader(env *Environment, client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPLoader{env: env, client: client}
}

// EnsureLoaded implements Loader. A successful activation sticks; a failed
// one leaves nothing behind, so the next call tries again.
func (l *HTTPLoader) EnsureLoaded(ctx context.Context, url string) bool {
	if l.env.Loaded(url) {
		utils.LogDebug("Checkout script already active: %s", url)
		return true
	}
	if !l.env.Registered(url) {
		utils.LogError("No checkout provider registered for script %s", url)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		utils.LogError("Invalid checkout script URL %s: %v", url, err)
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		utils.LogError("Failed to fetch checkout script %s: %v", url, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.LogError("Checkout script %s returned status %d", url, resp.StatusCode)
		return false
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		utils.LogError("Failed to read checkout script %s: %v", url, err)
		return false
	}

	if !l.env.Activate(url) {
		return false
	}
	utils.LogInfo("Checkout script loaded: %s", url)
	return true
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, url string) bool

// EnsureLoaded implements Loader
func (f LoaderFunc) EnsureLoaded(ctx context.Context, url string) bool {
	return f(ctx, url)
}
