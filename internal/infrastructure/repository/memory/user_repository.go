package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID int64) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[userID]
	return u, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Username == username {
			return u, true, nil
		}
	}

	return user.User{}, false, nil
}

func (r *UserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u.ID = r.store.nextID("users")
	r.store.users[u.ID] = u

	return u, nil
}
