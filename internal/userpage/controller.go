package userpage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joestump/trail-mix/internal/metrics"
)

// DefaultFetchTimeout bounds the session lookup plus profile fetch of one
// activation when Options.FetchTimeout is zero.
const DefaultFetchTimeout = 10 * time.Second

// Phase is the lifecycle position of a Controller.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Redirecting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Redirecting:
		return "redirecting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ViewState is the read-only snapshot handed to the rendering layer. A new
// value replaces the old one on every transition.
type ViewState struct {
	Phase             Phase
	ActivationID      string
	ProfileID         int64
	Name              string
	ProfilePhotoURL   string
	Photos            []Photo
	Favorites         []Trail
	CurrentPhotoIndex int
	Selected          bool
	RedirectRequested bool
	// Cause is the redirect reason. It is for diagnostics only and never
	// shown to the visitor.
	Cause error
}

// HasPhotos reports whether the carousel has anything to show.
func (s ViewState) HasPhotos() bool { return len(s.Photos) > 0 }

// CurrentPhoto returns the photo at CurrentPhotoIndex, or false when the
// carousel is empty.
func (s ViewState) CurrentPhoto() (Photo, bool) {
	if s.CurrentPhotoIndex < 0 || s.CurrentPhotoIndex >= len(s.Photos) {
		return Photo{}, false
	}
	return s.Photos[s.CurrentPhotoIndex], true
}

func (s ViewState) clone() ViewState {
	s.Photos = clonePhotos(s.Photos)
	s.Favorites = cloneTrails(s.Favorites)
	return s
}

// Options tunes a Controller.
type Options struct {
	// FetchTimeout bounds the whole activation fetch chain.
	FetchTimeout time.Duration
	Logger       *logrus.Entry
}

// Controller owns the view-state of one user page activation.
// All transitions are serialized by mu; the lock is never held across a
// network call.
type Controller struct {
	sessions SessionResolver
	profiles ProfileSource
	timeout  time.Duration
	log      *logrus.Entry

	mu          sync.Mutex
	state       ViewState
	cancel      context.CancelFunc
	deactivated bool
}

// NewController returns an Idle controller.
func NewController(sessions SessionResolver, profiles ProfileSource, opts Options) *Controller {
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Controller{
		sessions: sessions,
		profiles: profiles,
		timeout:  timeout,
		log:      log.WithField("component", "userpage"),
	}
}

// Activate resolves the visitor, checks that requestedProfileID is their own
// profile and loads the profile data. Any failure along the way ends in the
// Redirecting phase; the returned error is reserved for lifecycle misuse.
func (c *Controller) Activate(ctx context.Context, requestedProfileID string) (ViewState, error) {
	c.mu.Lock()
	if c.deactivated {
		c.mu.Unlock()
		return ViewState{}, ErrDeactivated
	}
	if c.state.Phase != Idle {
		s := c.state.clone()
		c.mu.Unlock()
		return s, ErrAlreadyActivated
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	c.cancel = cancel
	activationID := uuid.NewString()
	c.state = ViewState{Phase: Loading, ActivationID: activationID}
	c.mu.Unlock()
	defer cancel()

	log := c.log.WithFields(logrus.Fields{
		"activation": activationID,
		"profile_id": requestedProfileID,
	})

	start := time.Now()
	profileID, data, err := c.load(ctx, requestedProfileID)
	metrics.UserPageFetchDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deactivated {
		log.Debug("discarding activation result after deactivation")
		metrics.UserPageActivationsTotal.WithLabelValues("discarded").Inc()
		return ViewState{}, ErrDeactivated
	}
	c.cancel = nil

	if err != nil {
		cause := causeLabel(err)
		log.WithError(err).WithField("cause", cause).Info("user page redirect")
		metrics.UserPageActivationsTotal.WithLabelValues("redirect").Inc()
		metrics.UserPageRedirectsTotal.WithLabelValues(cause).Inc()
		c.state = ViewState{
			Phase:             Redirecting,
			ActivationID:      activationID,
			RedirectRequested: true,
			Cause:             err,
		}
		return c.state.clone(), nil
	}

	photos := clonePhotos(data.Photos)
	c.state = ViewState{
		Phase:             Ready,
		ActivationID:      activationID,
		ProfileID:         profileID,
		Name:              data.Name,
		ProfilePhotoURL:   data.ProfilePhotoURL,
		Photos:            photos,
		Favorites:         cloneTrails(data.Favorites),
		CurrentPhotoIndex: 0,
		Selected:          len(photos) > 0,
	}
	log.WithFields(logrus.Fields{
		"photos":    len(photos),
		"favorites": len(data.Favorites),
	}).Debug("user page ready")
	metrics.UserPageActivationsTotal.WithLabelValues("ready").Inc()
	return c.state.clone(), nil
}

// load runs the ordered fetch chain: session, identity check, profile data.
func (c *Controller) load(ctx context.Context, requestedProfileID string) (int64, *UserData, error) {
	session, err := c.sessions.ResolveSession(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	if session == nil {
		return 0, nil, ErrAuthFailure
	}

	profileID, err := normalizeProfileID(requestedProfileID)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	if profileID != session.ID {
		return 0, nil, fmt.Errorf("%w: visitor %d requested %d", ErrAccessDenied, session.ID, profileID)
	}

	data, err := c.profiles.FetchUserData(ctx, profileID)
	switch {
	case errors.Is(err, ErrNotFound):
		return 0, nil, err
	case err != nil:
		return 0, nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	case data == nil:
		return 0, nil, fmt.Errorf("%w: empty record for %d", ErrNotFound, profileID)
	}
	return profileID, data, nil
}

// normalizeProfileID parses a route parameter into a numeric profile id.
func normalizeProfileID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid profile id %q", raw)
	}
	return id, nil
}

// SelectPhoto makes the photo at index the current one.
func (c *Controller) SelectPhoto(index int) (ViewState, error) {
	return c.update(func(s ViewState) (ViewState, error) {
		if index < 0 || index >= len(s.Photos) {
			return s, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(s.Photos))
		}
		s.CurrentPhotoIndex = index
		s.Selected = true
		return s, nil
	})
}

// RemovePhoto drops the photo at index from the carousel and resets the
// current photo to the first one. Nothing is deleted on the backend.
func (c *Controller) RemovePhoto(index int) (ViewState, error) {
	return c.update(func(s ViewState) (ViewState, error) {
		if index < 0 || index >= len(s.Photos) {
			return s, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(s.Photos))
		}
		photos := make([]Photo, 0, len(s.Photos)-1)
		photos = append(photos, s.Photos[:index]...)
		photos = append(photos, s.Photos[index+1:]...)
		s.Photos = photos
		s.CurrentPhotoIndex = 0
		s.Selected = len(photos) > 0
		return s, nil
	})
}

// AppendComment adds a comment, already persisted by the caller for
// photoID, to the current photo so the page does not have to reload its
// data. If the selection has moved off photoID since the caller read it,
// nothing changes and ErrSelectionMoved is returned.
func (c *Controller) AppendComment(photoID int64, comment Comment) (ViewState, error) {
	return c.update(func(s ViewState) (ViewState, error) {
		if !s.Selected || len(s.Photos) == 0 {
			return s, fmt.Errorf("%w: no photo selected", ErrInvalidState)
		}
		if s.CurrentPhotoIndex < 0 || s.CurrentPhotoIndex >= len(s.Photos) {
			return s, fmt.Errorf("%w: current photo %d not in [0, %d)", ErrInvalidState, s.CurrentPhotoIndex, len(s.Photos))
		}
		target := s.Photos[s.CurrentPhotoIndex]
		if target.ID != photoID {
			return s, fmt.Errorf("%w: comment for photo %d, current is %d", ErrSelectionMoved, photoID, target.ID)
		}
		photos := make([]Photo, len(s.Photos))
		copy(photos, s.Photos)
		comments := make([]Comment, 0, len(target.Comments)+1)
		comments = append(comments, target.Comments...)
		target.Comments = append(comments, comment)
		photos[s.CurrentPhotoIndex] = target
		s.Photos = photos
		return s, nil
	})
}

// DismissSelection clears the photo selection, as the Escape key does.
func (c *Controller) DismissSelection() (ViewState, error) {
	return c.update(func(s ViewState) (ViewState, error) {
		s.Selected = false
		return s, nil
	})
}

// CurrentPhoto returns the selected photo so a caller can persist a comment
// for it before calling AppendComment.
func (c *Controller) CurrentPhoto() (Photo, error) {
	s := c.State()
	if s.Phase != Ready || !s.Selected {
		return Photo{}, fmt.Errorf("%w: no photo selected", ErrInvalidState)
	}
	p, ok := s.CurrentPhoto()
	if !ok {
		return Photo{}, fmt.Errorf("%w: no photo selected", ErrInvalidState)
	}
	return p, nil
}

// State returns a copy of the current snapshot.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Deactivate tears the controller down. An activation still in flight is
// cancelled and its result discarded. Calling it more than once is harmless.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deactivated {
		return
	}
	c.deactivated = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = ViewState{}
}

// update applies fn to the Ready state. fn receives a value it may modify
// freely as long as it does not write into shared slices; on error the
// stored state is left untouched.
func (c *Controller) update(fn func(ViewState) (ViewState, error)) (ViewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deactivated {
		return ViewState{}, ErrDeactivated
	}
	if c.state.Phase != Ready {
		return c.state.clone(), fmt.Errorf("%w: phase is %s", ErrInvalidState, c.state.Phase)
	}
	next, err := fn(c.state)
	if err != nil {
		return c.state.clone(), err
	}
	c.state = next
	return c.state.clone(), nil
}
