package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

// UserRepo is an in-process credential store. Email uniqueness is enforced
// under the write lock, the same guarantee the postgres unique index gives.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(errors.New("missing user id"))
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrDuplicateEmail(nil)
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}
