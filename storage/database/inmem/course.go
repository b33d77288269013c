package inmem

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.courses {
		if existing.AccessCode == crs.AccessCode {
			return course.Course{}, &core.DuplicateKeyError{Constraint: course.AccessCodeConstraint}
		}
	}
	crs.ID = repo.db.nextID()
	repo.db.courses[crs.ID] = crs
	return crs, nil
}

func (repo courseRepository) GetCourseByID(_ context.Context, id int) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	crs, ok := repo.db.courses[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByAccessCode(_ context.Context, code string) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, crs := range repo.db.courses {
		if crs.AccessCode == code {
			return crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo courseRepository) QueryCoursesByTeacher(_ context.Context, teacherID int) ([]course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	courses := make([]course.Course, 0)
	for _, crs := range repo.db.courses {
		if crs.TeacherID == teacherID {
			courses = append(courses, crs)
		}
	}
	sortCourses(courses)
	return courses, nil
}

func (repo courseRepository) QueryCoursesByStudent(_ context.Context, userID int) ([]course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	courses := make([]course.Course, 0)
	for _, enr := range repo.db.enrollments {
		if enr.userID == userID {
			if crs, ok := repo.db.courses[enr.courseID]; ok {
				courses = append(courses, crs)
			}
		}
	}
	sortCourses(courses)
	return courses, nil
}

func (repo courseRepository) CreateEnrollment(_ context.Context, courseID, userID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, enr := range repo.db.enrollments {
		if enr.courseID == courseID && enr.userID == userID {
			return &core.DuplicateKeyError{Constraint: course.EnrollmentConstraint}
		}
	}
	repo.db.enrollments[repo.db.nextID()] = enrollment{courseID: courseID, userID: userID}
	return nil
}

func (repo courseRepository) QueryStudents(_ context.Context, courseID int) ([]user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students := make([]user.User, 0)
	for _, enr := range repo.db.enrollments {
		if enr.courseID == courseID {
			if usr, ok := repo.db.users[enr.userID]; ok {
				students = append(students, usr)
			}
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo courseRepository) CreateCourseTeacher(_ context.Context, courseID, userID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := enrollment{courseID: courseID, userID: userID}
	if repo.db.courseTeachers[key] {
		return &core.DuplicateKeyError{Constraint: course.CourseTeacherConstraint}
	}
	repo.db.courseTeachers[key] = true
	return nil
}

func (repo courseRepository) CourseTeacherExists(_ context.Context, courseID, userID int) (bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	return repo.db.courseTeachers[enrollment{courseID: courseID, userID: userID}], nil
}

func (repo courseRepository) EnrollmentExists(_ context.Context, courseID, userID int) (bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, enr := range repo.db.enrollments {
		if enr.courseID == courseID && enr.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func sortCourses(courses []course.Course) {
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
}
