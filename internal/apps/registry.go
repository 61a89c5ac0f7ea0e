package apps

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// App is a configured target application, as exposed over the API.
type App struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Registry holds the static appId -> baseUrl configuration. Read-only after
// startup.
type Registry struct {
	baseURLs map[string]string
}

// NewRegistryFromJSON parses the apps configuration, a JSON object mapping
// app ids to base URLs, e.g. {"status_board": "https://status.example.com"}.
func NewRegistryFromJSON(appsJSON string) (*Registry, error) {
	if appsJSON == "" {
		return nil, errors.New("apps config is empty")
	}

	baseURLs := make(map[string]string)
	if err := json.Unmarshal([]byte(appsJSON), &baseURLs); err != nil {
		return nil, fmt.Errorf("unmarshal apps config: %w", err)
	}

	return &Registry{baseURLs: baseURLs}, nil
}

// BaseURL returns the configured base URL for the given app id.
func (r *Registry) BaseURL(appID string) (string, bool) {
	baseURL, ok := r.baseURLs[appID]
	return baseURL, ok
}

// List returns all configured apps, sorted by id, with display names derived
// from the ids.
func (r *Registry) List() []App {
	apps := make([]App, 0, len(r.baseURLs))
	for id, baseURL := range r.baseURLs {
		apps = append(apps, App{
			ID:   id,
			Name: displayName(id),
			URL:  baseURL,
		})
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].ID < apps[j].ID
	})

	return apps
}

// displayName turns an app id like "status_board" into "Status Board".
func displayName(appID string) string {
	parts := strings.Split(appID, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
