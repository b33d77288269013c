package inmem

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/material"
)

type materialRepository struct {
	db *DB
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *DB) *materialRepository {
	return &materialRepository{db: db}
}

func (repo materialRepository) CreateMaterial(_ context.Context, mat material.Material) (material.Material, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	mat.ID = repo.db.nextID()
	repo.db.materials[mat.ID] = mat
	return mat, nil
}

func (repo materialRepository) QueryMaterialsByCourse(_ context.Context, courseID int) ([]material.Material, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	mats := make([]material.Material, 0)
	for _, mat := range repo.db.materials {
		if mat.CourseID == courseID {
			mats = append(mats, mat)
		}
	}
	sort.Slice(mats, func(i, j int) bool { return mats[i].ID < mats[j].ID })
	return mats, nil
}
