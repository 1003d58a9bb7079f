// Package userpage owns the view-state of a single user profile page: the
// identity gate, the photo carousel, comment insertion and the saved-trail
// list. One Controller serves one page activation.
package userpage

import "context"

// SessionInfo identifies the visitor behind the current request.
type SessionInfo struct {
	ID int64
}

// Comment is a single comment rendered under a photo.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Photo is one carousel entry. Its index in UserData.Photos is what the page
// uses to address it; the index shifts when an earlier photo is removed.
type Photo struct {
	ID       int64     `json:"id"`
	URL      string    `json:"url"`
	Comments []Comment `json:"comments"`
}

// Trail is a saved trail shown in the collapsible list.
type Trail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// UserData is the profile record loaded once per activation.
type UserData struct {
	Name            string  `json:"name"`
	ProfilePhotoURL string  `json:"profile_photo_url"`
	Photos          []Photo `json:"photos"`
	Favorites       []Trail `json:"favorites"`
}

// SessionResolver returns the identity of the current visitor.
type SessionResolver interface {
	ResolveSession(ctx context.Context) (*SessionInfo, error)
}

// ProfileSource loads a profile record. It returns ErrNotFound (or an error
// wrapping it) when no profile exists for id.
type ProfileSource interface {
	FetchUserData(ctx context.Context, id int64) (*UserData, error)
}

func clonePhotos(in []Photo) []Photo {
	if in == nil {
		return nil
	}
	out := make([]Photo, len(in))
	for i, p := range in {
		out[i] = p
		if p.Comments != nil {
			out[i].Comments = append([]Comment(nil), p.Comments...)
		}
	}
	return out
}

func cloneTrails(in []Trail) []Trail {
	if in == nil {
		return nil
	}
	return append([]Trail(nil), in...)
}
