package course

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// unique constraint names shared with the storage layer
const (
	AccessCodeConstraint    = "courses_access_code_key"
	EnrollmentConstraint    = "enrollments_course_id_user_id_key"
	CourseTeacherConstraint = "course_teachers_pkey"
)

// access code collisions are vanishingly rare; bail out instead of looping forever
const maxCodeAttempts = 5

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("course not found")
	ErrNotTeacher       = core.NewForbiddenError("only teachers can create courses")
	ErrNotCourseTeacher = core.NewForbiddenError("only course teachers can manage this course")
	ErrNotMember        = core.NewForbiddenError("you must be enrolled in the course")
	ErrAlreadyEnrolled  = core.NewConflictError("already enrolled in this course")
	ErrAlreadyTeacher   = core.NewConflictError("user is already a teacher of this course")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		GetCourseByAccessCode(ctx context.Context, code string) (Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherID int) ([]Course, error)
		QueryCoursesByStudent(ctx context.Context, userID int) ([]Course, error)
		CreateEnrollment(ctx context.Context, courseID, userID int) error
		QueryStudents(ctx context.Context, courseID int) ([]user.User, error)
		CreateCourseTeacher(ctx context.Context, courseID, userID int) error
		CourseTeacherExists(ctx context.Context, courseID, userID int) (bool, error)
		EnrollmentExists(ctx context.Context, courseID, userID int) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a course owned by the calling teacher. The access code is
// drawn at random and regenerated on the off chance it collides with an
// existing course.
func (svc *Service) Create(ctx context.Context, caller user.User, nc NewCourse) (Course, error) {
	if !caller.IsTeacher() {
		return Course{}, ErrNotTeacher
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := codeFunc()
		if err != nil {
			return Course{}, errors.Wrap(err, "generating access code")
		}

		crs, err := svc.repo.CreateCourse(ctx, Course{
			Title:       nc.Title,
			Description: nc.Description,
			AccessCode:  code,
			TeacherID:   caller.ID,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			if core.IsDuplicateKey(err, AccessCodeConstraint) {
				continue
			}
			return Course{}, errors.Wrap(err, "creating course")
		}
		return crs, nil
	}
	return Course{}, errors.New("could not generate a unique access code")
}

func (svc *Service) GetByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) GetByAccessCode(ctx context.Context, code string) (Course, error) {
	code = strings.ToUpper(core.CleanString(code))
	return svc.repo.GetCourseByAccessCode(ctx, code)
}

// ListForUser returns the courses visible to the user: enrollments for
// students, owned courses merged with enrollments for teachers.
func (svc *Service) ListForUser(ctx context.Context, usr user.User) ([]Course, error) {
	enrolled, err := svc.repo.QueryCoursesByStudent(ctx, usr.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrolled courses")
	}
	if !usr.IsTeacher() {
		return enrolled, nil
	}

	owned, err := svc.repo.QueryCoursesByTeacher(ctx, usr.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying owned courses")
	}
	seen := make(map[int]bool, len(owned))
	for _, crs := range owned {
		seen[crs.ID] = true
	}
	for _, crs := range enrolled {
		if !seen[crs.ID] {
			owned = append(owned, crs)
		}
	}
	return owned, nil
}

// Join enrolls the user in the course matching the access code and returns
// that course. Joining twice is a conflict, not a duplicate row: the insert
// is attempted and the unique-constraint violation mapped, so concurrent
// joins cannot race past a pre-check.
func (svc *Service) Join(ctx context.Context, usr user.User, jc JoinCourse) (Course, error) {
	crs, err := svc.GetByAccessCode(ctx, jc.AccessCode)
	if err != nil {
		return Course{}, err
	}

	if err = svc.repo.CreateEnrollment(ctx, crs.ID, usr.ID); err != nil {
		if core.IsDuplicateKey(err, EnrollmentConstraint) {
			return Course{}, ErrAlreadyEnrolled
		}
		return Course{}, errors.Wrap(err, "creating enrollment")
	}
	return crs, nil
}

func (svc *Service) ListStudents(ctx context.Context, courseID int) ([]user.User, error) {
	return svc.repo.QueryStudents(ctx, courseID)
}

// AddTeacher grants course-teacher rights to another teacher.
func (svc *Service) AddTeacher(ctx context.Context, caller user.User, courseID int, target user.User) error {
	if err := svc.CheckCourseTeacher(ctx, courseID, caller); err != nil {
		return err
	}
	if !target.IsTeacher() {
		return core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "user is not a teacher"})
	}

	if err := svc.repo.CreateCourseTeacher(ctx, courseID, target.ID); err != nil {
		if core.IsDuplicateKey(err, CourseTeacherConstraint) {
			return ErrAlreadyTeacher
		}
		return errors.Wrap(err, "creating course teacher")
	}
	return nil
}

// IsCourseTeacher reports whether the user may manage the course: either
// they own it or they hold a course-teacher grant. A global teacher role
// alone is not sufficient.
func (svc *Service) IsCourseTeacher(ctx context.Context, courseID int, usr user.User) (bool, error) {
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	if crs.TeacherID == usr.ID {
		return true, nil
	}
	return svc.repo.CourseTeacherExists(ctx, courseID, usr.ID)
}

// CheckCourseTeacher is IsCourseTeacher expressed as a guard.
func (svc *Service) CheckCourseTeacher(ctx context.Context, courseID int, usr user.User) error {
	ok, err := svc.IsCourseTeacher(ctx, courseID, usr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotCourseTeacher
	}
	return nil
}

// IsMember reports whether the user belongs to the course, as a student
// or as a course teacher.
func (svc *Service) IsMember(ctx context.Context, courseID int, usr user.User) (bool, error) {
	enrolled, err := svc.repo.EnrollmentExists(ctx, courseID, usr.ID)
	if err != nil {
		return false, err
	}
	if enrolled {
		return true, nil
	}
	return svc.IsCourseTeacher(ctx, courseID, usr)
}
