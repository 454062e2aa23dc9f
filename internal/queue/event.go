// Package queue defines message payloads exchanged over the message broker.
package queue

// PhotosQueue carries one message per theater processed by the photo downloader.
const PhotosQueue = "theater.photos"

// PhotoResultEvent is published after the downloader finishes a theater.
// It carries enough for the consumer to log the outcome without querying
// the database.
type PhotoResultEvent struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	City        string `json:"city"`
	State       string `json:"state"`
	Status      string `json:"status"` // success | no_place_found | no_photos | error
	PlaceID     string `json:"place_id,omitempty"`
	PlaceName   string `json:"place_name,omitempty"`
	Photos      int    `json:"photos"`
	Error       string `json:"error,omitempty"`
	ProcessedAt string `json:"processed_at"`
}
