package api

import (
	"time"

	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/trailmap"
	"github.com/joestump/trail-mix/internal/userpage"
)

// --- Trail types ---

// MarkerListResponse is the response for GET /api/v1/trails/markers.
type MarkerListResponse struct {
	Center  trailmap.Center   `json:"center"`
	Zoom    int               `json:"zoom"`
	Markers []trailmap.Marker `json:"markers"`
}

// TrailResponse is the JSON representation of a trail.
type TrailResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func trailResponse(t *store.Trail) TrailResponse {
	return TrailResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Thumbnail:   t.Thumbnail,
		Lat:         t.Lat,
		Lng:         t.Lng,
	}
}

// --- User types ---

// UserResponse is the JSON representation of the caller.
type UserResponse struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	ProfilePhotoURL string    `json:"profile_photo_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserPageResponse is the activated user page.
type UserPageResponse struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	ProfilePhotoURL   string           `json:"profile_photo_url"`
	Photos            []userpage.Photo `json:"photos"`
	Favorites         []userpage.Trail `json:"favorites"`
	CurrentPhotoIndex int              `json:"current_photo_index"`
}

// --- Travel log types ---

// CreateTravellogRequest is the request body for POST /api/v1/travellog.
type CreateTravellogRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TravellogEntryResponse is the JSON representation of a travel log entry.
type TravellogEntryResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
