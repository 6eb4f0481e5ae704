package repofake

import (
	"sort"
	"sync"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	byUsername map[string]*users.User
	nextID     int64
	lock       sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byUsername: make(map[string]*users.User),
		nextID:     1,
	}
}

func (r *FakeUserRepo) Upsert(user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.byUsername[user.Username]; ok {
		user.ID = existing.ID
	}
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	copied := *user
	r.byUsername[user.Username] = &copied
	return nil
}

func (r *FakeUserRepo) Delete(username string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byUsername[username]; !ok {
		return interrors.ErrUserNotFound
	}
	delete(r.byUsername, username)
	return nil
}

func (r *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return nil, interrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *FakeUserRepo) GetByID(id int64) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, user := range r.byUsername {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, interrors.ErrUserNotFound
}

func (r *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*users.User, 0, len(r.byUsername))
	for _, user := range r.byUsername {
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*users.User{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *FakeUserRepo) ListByRole(role users.Role) ([]*users.User, error) {
	all, err := r.List(0, 0)
	if err != nil {
		return nil, err
	}
	matched := make([]*users.User, 0)
	for _, user := range all {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	return matched, nil
}

func (r *FakeUserRepo) SetBlocked(username string, blocked bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	user, ok := r.byUsername[username]
	if !ok {
		return interrors.ErrUserNotFound
	}
	user.Blocked = blocked
	return nil
}

func (r *FakeUserRepo) SetLastLogin(username string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	user, ok := r.byUsername[username]
	if !ok {
		return interrors.ErrUserNotFound
	}
	user.LastLogin = time.Now()
	return nil
}
