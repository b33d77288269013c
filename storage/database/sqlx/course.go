package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	err := repo.db.GetContext(ctx, &crs.ID, `
        INSERT INTO courses (title, description, access_code, teacher_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`,
		crs.Title, crs.Description, crs.AccessCode, crs.TeacherID, crs.CreatedAt,
	)
	if err != nil {
		return course.Course{}, trapErr(err, "inserting course", course.ErrNotFound)
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var crs course.Course
	if err := repo.db.GetContext(ctx, &crs, `SELECT * FROM courses WHERE id = $1`, id); err != nil {
		return course.Course{}, trapErr(err, "getting course by ID", course.ErrNotFound)
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByAccessCode(ctx context.Context, code string) (course.Course, error) {
	var crs course.Course
	if err := repo.db.GetContext(ctx, &crs, `SELECT * FROM courses WHERE access_code = $1`, code); err != nil {
		return course.Course{}, trapErr(err, "getting course by access code", course.ErrNotFound)
	}
	return crs, nil
}

func (repo courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherID int) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.db.SelectContext(ctx, &courses, `
        SELECT * FROM courses WHERE teacher_id = $1
        ORDER BY created_at DESC`,
		teacherID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses by teacher")
	}
	return courses, nil
}

func (repo courseRepository) QueryCoursesByStudent(ctx context.Context, userID int) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.db.SelectContext(ctx, &courses, `
        SELECT c.* FROM courses c
        JOIN enrollments e ON e.course_id = c.id
        WHERE e.user_id = $1
        ORDER BY c.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses by student")
	}
	return courses, nil
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, courseID, userID int) error {
	_, err := repo.db.ExecContext(ctx, `
        INSERT INTO enrollments (course_id, user_id) VALUES ($1, $2)`,
		courseID, userID,
	)
	if err != nil {
		if dup := trapDuplicateKey(err); dup != nil {
			return dup
		}
		return errors.Wrap(err, "inserting enrollment")
	}
	return nil
}

func (repo courseRepository) QueryStudents(ctx context.Context, courseID int) ([]user.User, error) {
	students := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &students, `
        SELECT u.* FROM users u
        JOIN enrollments e ON e.user_id = u.id
        WHERE e.course_id = $1
        ORDER BY u.first_name, u.last_name`,
		courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying course students")
	}
	return students, nil
}

func (repo courseRepository) CreateCourseTeacher(ctx context.Context, courseID, userID int) error {
	_, err := repo.db.ExecContext(ctx, `
        INSERT INTO course_teachers (course_id, user_id) VALUES ($1, $2)`,
		courseID, userID,
	)
	if err != nil {
		if dup := trapDuplicateKey(err); dup != nil {
			return dup
		}
		return errors.Wrap(err, "inserting course teacher")
	}
	return nil
}

func (repo courseRepository) CourseTeacherExists(ctx context.Context, courseID, userID int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `
        SELECT EXISTS (SELECT 1 FROM course_teachers WHERE course_id = $1 AND user_id = $2)`,
		courseID, userID,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking course teacher")
	}
	return exists, nil
}

func (repo courseRepository) EnrollmentExists(ctx context.Context, courseID, userID int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `
        SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2)`,
		courseID, userID,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return exists, nil
}
