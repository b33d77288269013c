package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	asg.ID = repo.db.nextID()
	repo.db.assignments[asg.ID] = asg
	return asg, nil
}

func (repo assignmentRepository) GetAssignmentByID(_ context.Context, id int) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	asg, ok := repo.db.assignments[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return asg, nil
}

func (repo assignmentRepository) QueryAssignmentsByCourse(_ context.Context, courseID int) ([]assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	asgs := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.CourseID == courseID {
			asgs = append(asgs, asg)
		}
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].ID < asgs[j].ID })
	return asgs, nil
}

func (repo assignmentRepository) UpsertSubmission(_ context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, existing := range repo.db.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.UserID == sub.UserID {
			sub.ID = id
			sub.Grade = null.Int{}
			sub.Feedback = null.String{}
			sub.GradedAt = null.Time{}
			repo.db.submissions[id] = sub
			return sub, nil
		}
	}
	sub.ID = repo.db.nextID()
	repo.db.submissions[sub.ID] = sub
	return sub, nil
}

func (repo assignmentRepository) GetSubmissionByID(_ context.Context, id int) (assignment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.submissions[id]
	if !ok {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	return sub, nil
}

func (repo assignmentRepository) GetSubmissionByAssignmentAndUser(_ context.Context, assignmentID, userID int) (assignment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.UserID == userID {
			return sub, nil
		}
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo assignmentRepository) QuerySubmissionsByAssignment(_ context.Context, assignmentID int) ([]assignment.StudentSubmission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subs := make([]assignment.StudentSubmission, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID != assignmentID {
			continue
		}
		ssub := assignment.StudentSubmission{Submission: sub}
		if usr, ok := repo.db.users[sub.UserID]; ok {
			ssub.Username = usr.Username
			ssub.FirstName = usr.FirstName
			ssub.LastName = usr.LastName
		}
		subs = append(subs, ssub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (repo assignmentRepository) GradeSubmission(_ context.Context, id, grade int, feedback string, gradedAt time.Time) (assignment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.submissions[id]
	if !ok {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	sub.Grade = null.IntFrom(grade)
	sub.Feedback = null.StringFrom(feedback)
	sub.GradedAt = null.TimeFrom(gradedAt)
	repo.db.submissions[id] = sub
	return sub, nil
}
