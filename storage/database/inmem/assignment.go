package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/tathmini/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) query() []assignment.Assignment {
	asgs := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		asgs = append(asgs, *a)
	}
	// deterministic order, maps do not keep one
	sort.Slice(asgs, func(i, j int) bool {
		if asgs[i].CreatedAt.Equal(asgs[j].CreatedAt) {
			return asgs[i].ID < asgs[j].ID
		}
		return asgs[i].CreatedAt.Before(asgs[j].CreatedAt)
	})
	return asgs
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	asg.ID = uuid.New().String()
	if asg.Status == "" {
		asg.Status = assignment.StatusPending
	}
	now := time.Now().UTC()
	asg.CreatedAt = now
	asg.UpdatedAt = now
	repo.db.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) QueryAllAssignments(_ context.Context) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if asg, ok := repo.db.table[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[asg.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	orig.Content = asg.Content
	orig.Score = asg.Score
	orig.Status = asg.Status
	orig.UpdatedAt = asg.UpdatedAt
	if orig.UpdatedAt.IsZero() {
		orig.UpdatedAt = time.Now().UTC()
	}

	repo.db.table[asg.ID] = orig
	return *orig, nil
}
