package config

import (
	"fmt"
	"os"
)

// ClubspotConfig configures the upstream Clubspot API client.
type ClubspotConfig struct {
	APIKey string
	ClubID string
	// BaseURL overrides the production API root; used by local stubs.
	BaseURL string
}

func LoadClubspotConfigFromEnv() (ClubspotConfig, error) {
	apiKey := os.Getenv("CLUBSPOT_API_KEY")
	clubID := os.Getenv("CLUBSPOT_CLUB_ID")
	if apiKey == "" || clubID == "" {
		return ClubspotConfig{}, fmt.Errorf("missing required env vars: CLUBSPOT_API_KEY, CLUBSPOT_CLUB_ID")
	}
	return ClubspotConfig{
		APIKey:  apiKey,
		ClubID:  clubID,
		BaseURL: os.Getenv("CLUBSPOT_BASE_URL"),
	}, nil
}
