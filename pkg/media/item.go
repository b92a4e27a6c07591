// Package media defines the catalog item shape shared by the library, the
// catalog client and the backup format.
//
// Items mirror the catalog provider's title objects. A title is identified by
// the pair (media type, id); the same numeric id can name both a movie and a
// TV show.
package media

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type is a catalog media type.
type Type string

// Known media types.
const (
	TypeMovie Type = "movie"
	TypeTV    Type = "tv"
)

// Item is a catalog title as stored in a user's library.
//
// Both Type and MediaType are kept because stored data from older front ends
// may carry either one; Normalize makes them agree.
type Item struct {
	ID           int64   `json:"id"`
	Type         Type    `json:"type,omitempty"`
	MediaType    Type    `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// ResolvedType returns media_type, else type, else movie.
func (i Item) ResolvedType() Type {
	if i.MediaType != "" {
		return i.MediaType
	}
	if i.Type != "" {
		return i.Type
	}
	return TypeMovie
}

// Normalize returns a copy with both type fields set to the resolved type.
func (i Item) Normalize() Item {
	t := i.ResolvedType()
	i.Type = t
	i.MediaType = t
	if i.GenreIDs != nil {
		i.GenreIDs = append([]int(nil), i.GenreIDs...)
	}
	return i
}

// Key returns the "<type>-<id>" key used for progress and ratings.
func (i Item) Key() string {
	return fmt.Sprintf("%s-%d", i.ResolvedType(), i.ID)
}

// Same reports whether two items name the same title.
func (i Item) Same(other Item) bool {
	return i.ID == other.ID && i.ResolvedType() == other.ResolvedType()
}

// Valid reports whether the item carries an id.
func (i Item) Valid() bool {
	return i.ID != 0
}

// DisplayTitle returns the movie title or the show name.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	if i.Name != "" {
		return i.Name
	}
	return fmt.Sprintf("%s #%d", i.ResolvedType(), i.ID)
}

// HistoryEntry is one watch event.
type HistoryEntry struct {
	Item      Item      `json:"item"`
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON accepts the timestamp either as RFC 3339 text or as Unix
// milliseconds, the form browser exports use.
func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Item      Item            `json:"item"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.Item = raw.Item
	h.Timestamp = time.Time{}

	if len(raw.Timestamp) == 0 || string(raw.Timestamp) == "null" {
		return nil
	}

	var ms int64
	if err := json.Unmarshal(raw.Timestamp, &ms); err == nil {
		h.Timestamp = time.UnixMilli(ms).UTC()
		return nil
	}

	if err := json.Unmarshal(raw.Timestamp, &h.Timestamp); err != nil {
		return fmt.Errorf("history timestamp: %w", err)
	}
	return nil
}

// Rating is a user's score for a title.
type Rating struct {
	Score   float64   `json:"score"`
	RatedAt time.Time `json:"ratedAt"`
}
