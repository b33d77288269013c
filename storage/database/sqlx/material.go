package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/material"
)

type materialRepository struct {
	db *sqlx.DB
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *sqlx.DB) *materialRepository {
	return &materialRepository{db: db}
}

func (repo materialRepository) CreateMaterial(ctx context.Context, mat material.Material) (material.Material, error) {
	err := repo.db.GetContext(ctx, &mat.ID, `
        INSERT INTO materials (course_id, title, file_ref, file_type, uploaded_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`,
		mat.CourseID, mat.Title, mat.FileRef, mat.FileType, mat.UploadedAt,
	)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "inserting material")
	}
	return mat, nil
}

func (repo materialRepository) QueryMaterialsByCourse(ctx context.Context, courseID int) ([]material.Material, error) {
	mats := make([]material.Material, 0)
	err := repo.db.SelectContext(ctx, &mats, `
        SELECT * FROM materials WHERE course_id = $1
        ORDER BY uploaded_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying materials by course")
	}
	return mats, nil
}
