package material

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		CreateMaterial(ctx context.Context, mat Material) (Material, error)
		QueryMaterialsByCourse(ctx context.Context, courseID int) ([]Material, error)
	}

	// CourseGuard is the slice of the course service the material engine
	// relies on for authorization.
	CourseGuard interface {
		CheckCourseTeacher(ctx context.Context, courseID int, usr user.User) error
		IsMember(ctx context.Context, courseID int, usr user.User) (bool, error)
	}

	Service struct {
		repo    Repository
		courses CourseGuard
		blobs   core.BlobStore
		conf    *core.Config
	}
)

func NewService(repo Repository, courses CourseGuard, blobs core.BlobStore, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		courses: courses,
		blobs:   blobs,
		conf:    conf,
	}
}

// Upload stores a course material file; only course teachers may upload.
// Materials have their own size limit, distinct from submissions.
func (svc *Service) Upload(ctx context.Context, caller user.User, nm NewMaterial) (Material, error) {
	if err := svc.courses.CheckCourseTeacher(ctx, nm.CourseID, caller); err != nil {
		return Material{}, err
	}

	if nm.File.Size > svc.conf.Uploads.MaxMaterialFileSize {
		return Material{}, core.NewValidationError(core.ErrBlobTooLarge,
			core.FieldError{Field: "file", Error: core.ErrBlobTooLarge.Error()})
	}
	ref, err := svc.blobs.Store(nm.File.Name, io.LimitReader(nm.File.Content, svc.conf.Uploads.MaxMaterialFileSize))
	if err != nil {
		return Material{}, errors.Wrap(err, "storing material file")
	}

	return svc.repo.CreateMaterial(ctx, Material{
		CourseID:   nm.CourseID,
		Title:      nm.Title,
		FileRef:    ref,
		FileType:   filepath.Ext(nm.File.Name),
		UploadedAt: nowFunc().UTC(),
	})
}

// ListByCourse returns the course's materials; course members only.
func (svc *Service) ListByCourse(ctx context.Context, caller user.User, courseID int) ([]Material, error) {
	ok, err := svc.courses.IsMember(ctx, courseID, caller)
	if err != nil {
		return nil, errors.Wrap(err, "checking course membership")
	}
	if !ok {
		return nil, course.ErrNotMember
	}
	return svc.repo.QueryMaterialsByCourse(ctx, courseID)
}
