package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/nursetasks"
	"github.com/pkg/errors"
)

type TaskRepo struct {
	db DB
}

var _ nursetasks.Repo = (*TaskRepo)(nil)

func NewTaskRepo(db DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, nurse_id, patient_id, title, scheduled_time, completed, created_at`

func (r *TaskRepo) Upsert(task *nursetasks.Task) error {
	ctx := context.Background()

	if task.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO nurse_tasks (nurse_id, patient_id, title, scheduled_time, completed)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			task.NurseID, task.PatientID, task.Title, task.ScheduledTime, task.Completed,
		).Scan(&task.ID, &task.CreatedAt)
		return errors.Wrap(err, "[TaskRepo.Upsert] insert")
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE nurse_tasks SET nurse_id = $2, patient_id = $3, title = $4,
			scheduled_time = $5, completed = $6
		WHERE id = $1`,
		task.ID, task.NurseID, task.PatientID, task.Title, task.ScheduledTime, task.Completed,
	)
	if err != nil {
		return errors.Wrap(err, "[TaskRepo.Upsert] update")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(id int64) error {
	tag, err := r.db.Exec(context.Background(), `DELETE FROM nurse_tasks WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[TaskRepo.Delete] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) Get(id int64) (*nursetasks.Task, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+taskColumns+` FROM nurse_tasks WHERE id = $1`, id)
	return scanTask(row)
}

func (r *TaskRepo) List(offset, limit int) ([]*nursetasks.Task, int, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM nurse_tasks`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "[TaskRepo.List] count")
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM nurse_tasks ORDER BY scheduled_time OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[TaskRepo.List] query")
	}
	defer rows.Close()

	listed, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return listed, total, nil
}

func (r *TaskRepo) ListByNurse(nurseID int64) ([]*nursetasks.Task, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+taskColumns+` FROM nurse_tasks WHERE nurse_id = $1 ORDER BY scheduled_time`,
		nurseID)
	if err != nil {
		return nil, errors.Wrap(err, "[TaskRepo.ListByNurse] query")
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepo) SetCompleted(id int64, completed bool) error {
	tag, err := r.db.Exec(context.Background(),
		`UPDATE nurse_tasks SET completed = $2 WHERE id = $1`, id, completed)
	if err != nil {
		return errors.Wrap(err, "[TaskRepo.SetCompleted] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*nursetasks.Task, error) {
	var task nursetasks.Task
	err := row.Scan(&task.ID, &task.NurseID, &task.PatientID, &task.Title,
		&task.ScheduledTime, &task.Completed, &task.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanTask] scan")
	}
	return &task, nil
}

func scanTasks(rows pgx.Rows) ([]*nursetasks.Task, error) {
	listed := make([]*nursetasks.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, task)
	}
	return listed, errors.Wrap(rows.Err(), "[scanTasks] rows")
}
