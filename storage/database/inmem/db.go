package inmemdb

import (
	"sync"

	"github.com/trezcool/tathmini/core/admin"
	"github.com/trezcool/tathmini/core/assignment"
)

type (
	DB struct {
		admin      *adminTable
		assignment *assignmentTable
	}

	adminTable struct {
		table map[string]*admin.Admin
		mutex sync.RWMutex
	}

	assignmentTable struct {
		table map[string]*assignment.Assignment
		mutex sync.RWMutex
	}
)

func NewDB() *DB {
	return &DB{
		admin:      &adminTable{table: make(map[string]*admin.Admin)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
	}
}
