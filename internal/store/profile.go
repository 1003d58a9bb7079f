package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/joestump/trail-mix/internal/userpage"
)

// ProfileStore assembles the user page record from users, photos, comments
// and favorites. It implements userpage.ProfileSource.
type ProfileStore struct {
	users    *UserStore
	photos   *PhotoStore
	comments *CommentStore
	trails   *TrailStore
}

func NewProfileStore(us *UserStore, ps *PhotoStore, cs *CommentStore, ts *TrailStore) *ProfileStore {
	return &ProfileStore{users: us, photos: ps, comments: cs, trails: ts}
}

// FetchUserData loads the profile record for id. A missing user yields
// userpage.ErrNotFound.
func (s *ProfileStore) FetchUserData(ctx context.Context, id int64) (*userpage.UserData, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, userpage.ErrNotFound)
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}

	photos, err := s.photos.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load photos for %d: %w", id, err)
	}
	comments, err := s.comments.ListForUserPhotos(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load comments for %d: %w", id, err)
	}
	favorites, err := s.trails.ListFavorites(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load favorites for %d: %w", id, err)
	}

	data := &userpage.UserData{
		Name:            u.DisplayName,
		ProfilePhotoURL: u.ProfilePhotoURL,
		Photos:          make([]userpage.Photo, 0, len(photos)),
		Favorites:       make([]userpage.Trail, 0, len(favorites)),
	}
	for _, p := range photos {
		photo := userpage.Photo{ID: p.ID, URL: p.URL, Comments: []userpage.Comment{}}
		for _, c := range comments[p.ID] {
			photo.Comments = append(photo.Comments, userpage.Comment{Author: c.Author, Text: c.Body})
		}
		data.Photos = append(data.Photos, photo)
	}
	for _, t := range favorites {
		data.Favorites = append(data.Favorites, userpage.Trail{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Thumbnail:   t.Thumbnail,
		})
	}
	return data, nil
}
