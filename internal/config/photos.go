package config

import (
	"errors"
	"strings"
	"time"
)

// PhotosConfig defines settings for the photo download and review tools.
// DelayTheater and DelayPhoto throttle calls to the Places API; the
// downloader is sequential, so these are the only rate controls.
type PhotosConfig struct {
	PlacesAPIKey  string
	PlacesBaseURL string
	Dir           string
	MaxPerTheater int
	MaxWidth      int
	DelayTheater  time.Duration
	DelayPhoto    time.Duration
	ReviewPort    string
	ReviewStore   string // file | redis
	RedisKey      string
}

// ErrNoPlacesKey is returned by Validate when the downloader has no API key.
var ErrNoPlacesKey = errors.New("missing required env var: GOOGLE_PLACES_API_KEY")

// LoadPhotosConfig builds a PhotosConfig, falling back to defaults for
// anything unset or unparsable.
func LoadPhotosConfig() PhotosConfig {
	LoadDotenv()
	def := PhotosConfig{
		PlacesAPIKey:  getenv("GOOGLE_PLACES_API_KEY", ""),
		PlacesBaseURL: getenv("PLACES_BASE_URL", "https://places.googleapis.com/v1"),
		Dir:           getenv("PHOTOS_DIR", "./theater-photos"),
		MaxPerTheater: envInt("PHOTOS_MAX_PER_THEATER", 3),
		MaxWidth:      envInt("PHOTO_MAX_WIDTH", 1920),
		DelayTheater:  envDur("PHOTOS_DELAY_THEATER", 500*time.Millisecond),
		DelayPhoto:    envDur("PHOTOS_DELAY_PHOTO", 200*time.Millisecond),
		ReviewPort:    getenv("REVIEW_PORT", "3457"),
		ReviewStore:   strings.ToLower(getenv("REVIEW_STORE", "file")),
		RedisKey:      getenv("REVIEW_REDIS_KEY", "theater-photos:selections"),
	}
	if def.MaxPerTheater < 1 {
		def.MaxPerTheater = 1
	}
	if def.MaxWidth < 1 {
		def.MaxWidth = 1920
	}
	if def.DelayTheater < 0 {
		def.DelayTheater = 0
	}
	if def.DelayPhoto < 0 {
		def.DelayPhoto = 0
	}
	return def
}

// Validate checks what the downloader needs before any network call.
func (p PhotosConfig) Validate() error {
	if p.PlacesAPIKey == "" {
		return ErrNoPlacesKey
	}
	return nil
}
