package storage

import (
	"encoding/json"
	"time"
)

// FeedSource is a registered syndication feed whose items are imported as
// content records.
type FeedSource struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Religion     string    `json:"religion,omitempty"`
	Language     string    `json:"language,omitempty"`
	Topics       []string  `json:"topics,omitempty"`
	LastFetched  time.Time `json:"last_fetched"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// storedRecord wraps a record with its insertion sequence so catalogs load
// back in the order they were first saved.
type storedRecord struct {
	Seq    uint64          `json:"seq"`
	Record json.RawMessage `json:"record"`
}
