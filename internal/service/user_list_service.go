package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/events"
	"github.com/noah-isme/user-admin-console/internal/models"
	"github.com/noah-isme/user-admin-console/internal/notify"
)

type userFetcher interface {
	FetchAll(ctx context.Context) ([]models.User, error)
}

type errorNotifier interface {
	ShowError(message string) notify.Notification
}

// UserListService holds the users shown by the list view and keeps them in sync with form
// events.
type UserListService struct {
	repo     userFetcher
	notifier errorNotifier
	logger   *zap.Logger

	mu         sync.Mutex
	users      []models.User
	awaiting   bool
	generation uint64
}

// NewUserListService creates the list controller and subscribes it to dispatcher when given.
func NewUserListService(repo userFetcher, notifier errorNotifier, dispatcher events.Dispatcher, logger *zap.Logger) *UserListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &UserListService{repo: repo, notifier: notifier, logger: logger, users: []models.User{}}
	if dispatcher != nil {
		dispatcher.Subscribe(events.EventUserUpserted, func(_ context.Context, e events.Event) error {
			if e.User != nil {
				s.OnUpserted(*e.User)
			}
			return nil
		})
		dispatcher.Subscribe(events.EventUserDeleted, func(_ context.Context, e events.Event) error {
			s.OnDeleted(e.UserID)
			return nil
		})
	}
	return s
}

// Activate reloads the collection from the user store. On failure the collection is emptied and
// the operator is notified. A result is dropped when a newer activation started meanwhile.
func (s *UserListService) Activate(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.awaiting = true
	s.mu.Unlock()

	users, err := s.repo.FetchAll(ctx)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded user list", zap.Uint64("generation", gen))
		return err
	}
	s.awaiting = false
	if err != nil {
		s.users = []models.User{}
	} else {
		s.users = users
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to load users", zap.Error(err))
		if s.notifier != nil {
			s.notifier.ShowError(notify.GenericFailureMessage)
		}
		return err
	}
	s.logger.Debug("users loaded", zap.Int("count", len(users)))
	return nil
}

// OnUpserted replaces the user with the same id, or appends it.
func (s *UserListService) OnUpserted(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			return
		}
	}
	s.users = append(s.users, user)
}

// OnDeleted removes the user with id. Unknown ids are ignored.
func (s *UserListService) OnDeleted(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return
		}
	}
}

// Users returns a snapshot of the collection in display order.
func (s *UserListService) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Find returns the user with id from the current collection.
func (s *UserListService) Find(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Awaiting reports whether a fetch is in flight.
func (s *UserListService) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// StatusLabel maps a status key to its display label, or "" for unknown keys.
func StatusLabel(key string) string {
	status, err := models.ParseUserStatus(key)
	if err != nil {
		return ""
	}
	return status.Label()
}
