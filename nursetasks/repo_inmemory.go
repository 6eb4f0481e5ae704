package nursetasks

import (
	"sort"
	"sync"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	tasks  map[int64]*Task
	nextID int64
	lock   sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		tasks:  make(map[int64]*Task),
		nextID: 1,
	}
}

func (r *InMemoryRepo) Upsert(task *Task) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if task.ID == 0 {
		task.ID = r.nextID
		r.nextID++
		task.CreatedAt = time.Now()
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *InMemoryRepo) Delete(id int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return interrors.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *InMemoryRepo) Get(id int64) (*Task, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, interrors.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *InMemoryRepo) List(offset, limit int) ([]*Task, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		copied := *task
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ScheduledTime < all[j].ScheduledTime })

	total := len(all)
	if offset >= total {
		return []*Task{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *InMemoryRepo) ListByNurse(nurseID int64) ([]*Task, error) {
	all, _, err := r.List(0, 0)
	if err != nil {
		return nil, err
	}
	matched := make([]*Task, 0)
	for _, task := range all {
		if task.NurseID == nurseID {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (r *InMemoryRepo) SetCompleted(id int64, completed bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return interrors.ErrTaskNotFound
	}
	task.Completed = completed
	return nil
}
