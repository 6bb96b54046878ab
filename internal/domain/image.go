package domain

import (
	"fmt"
	"strings"
)

// Collection names one of the two independent record groups.
type Collection string

const (
	CollectionFirst  Collection = "first"
	CollectionSecond Collection = "second"
)

// DefaultForeignID is the foreign id the server forces on records posted into a collection.
const DefaultForeignID uint32 = 1

// DefaultUser is recorded on uploads while authentication is not part of the product.
const DefaultUser = "user"

// Collections lists every supported collection in a stable order.
func Collections() []Collection {
	return []Collection{CollectionFirst, CollectionSecond}
}

// ParseCollection normalizes a collection name coming from a URL or flag.
func ParseCollection(s string) (Collection, error) {
	switch Collection(strings.ToLower(strings.TrimSpace(s))) {
	case CollectionFirst:
		return CollectionFirst, nil
	case CollectionSecond:
		return CollectionSecond, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
}

// ImageRecord is the server-visible metadata of one uploaded asset.
// ForeignID 0 means the record is not grouped yet.
type ImageRecord struct {
	ImageID   uint32  `json:"image_id"`
	ForeignID uint32  `json:"foreign_id"`
	Path      string  `json:"path"`
	Title     *string `json:"title"`
	User      string  `json:"user"`
}

// TitleText returns the caption or an empty string.
func (r ImageRecord) TitleText() string {
	if r.Title == nil {
		return ""
	}
	return *r.Title
}

// WithTitle returns a copy of r with the caption replaced. An empty title clears it.
func (r ImageRecord) WithTitle(title string) ImageRecord {
	title = strings.TrimSpace(title)
	if title == "" {
		r.Title = nil
		return r
	}
	r.Title = &title
	return r
}
