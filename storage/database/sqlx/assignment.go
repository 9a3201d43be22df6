package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tathmini/core/assignment"
)

type dbAssignment struct {
	ID          string      `db:"id"`
	UserName    null.String `db:"user_name"`
	UserEmail   null.String `db:"user_email"`
	Title       null.String `db:"title"`
	Content     null.String `db:"content"`
	SubmittedAt null.Time   `db:"submitted_at"`
	Status      string      `db:"status"`
	Score       null.Int    `db:"score"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sql.DB) *assignmentRepository {
	return &assignmentRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo assignmentRepository) pack(asg assignment.Assignment) dbAssignment {
	a := dbAssignment{
		UserName:    asg.UserName,
		UserEmail:   asg.UserEmail,
		Title:       asg.Title,
		Content:     asg.Content,
		SubmittedAt: asg.SubmittedAt,
		Status:      asg.Status,
		Score:       asg.Score,
		CreatedAt:   asg.CreatedAt.UTC(),
		UpdatedAt:   asg.UpdatedAt.UTC(),
	}
	if asg.ID != "" {
		a.ID = asg.ID
	}
	return a
}

func (repo assignmentRepository) unpack(asg dbAssignment) assignment.Assignment {
	return assignment.Assignment{
		ID:          asg.ID,
		UserName:    asg.UserName,
		UserEmail:   asg.UserEmail,
		Title:       asg.Title,
		Content:     asg.Content,
		SubmittedAt: asg.SubmittedAt,
		Status:      asg.Status,
		Score:       asg.Score,
		CreatedAt:   asg.CreatedAt,
		UpdatedAt:   asg.UpdatedAt,
	}
}

func (repo assignmentRepository) unpackSlice(slice []dbAssignment) []assignment.Assignment {
	asgs := make([]assignment.Assignment, 0, len(slice))
	for _, a := range slice {
		asgs = append(asgs, repo.unpack(a))
	}
	return asgs
}

// trapNoRowsErr maps psql "no rows" err to assignment.ErrNotFound
func (repo assignmentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return assignment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	asg.ID = uuid.New().String()
	if asg.Status == "" {
		asg.Status = assignment.StatusPending
	}
	a := repo.pack(asg)

	const q = `
INSERT INTO assignment (id, user_name, user_email, title, content, submitted_at, status, score, created_at, updated_at)
VALUES (:id, :user_name, :user_email, :title, :content, :submitted_at, :status, :score, now(), now())`
	if _, err := repo.db.NamedExecContext(ctx, q, a); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return repo.GetAssignment(ctx, asg.ID)
}

func (repo assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var slice []dbAssignment
	if err := repo.db.SelectContext(ctx, &slice, `SELECT * FROM assignment ORDER BY created_at, id`); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return repo.unpackSlice(slice), nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return assignment.Assignment{}, assignment.ErrNotFound
	}

	var a dbAssignment
	if err := repo.db.GetContext(ctx, &a, `SELECT * FROM assignment WHERE id = $1`, id); err != nil {
		return assignment.Assignment{}, repo.trapNoRowsErr(err, "getting assignment")
	}
	return repo.unpack(a), nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	if _, err := uuid.Parse(asg.ID); err != nil {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	a := repo.pack(asg)

	const q = `
UPDATE assignment
SET content = :content, score = :score, status = :status, updated_at = now()
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, a)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return repo.GetAssignment(ctx, asg.ID)
}
