package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	err := repo.db.GetContext(ctx, &asg.ID, `
        INSERT INTO assignments (course_id, title, description, due_date, max_points, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		asg.CourseID, asg.Title, asg.Description, asg.DueDate, asg.MaxPoints, asg.CreatedAt,
	)
	if err != nil {
		return assignment.Assignment{}, trapErr(err, "inserting assignment", assignment.ErrNotFound)
	}
	return asg, nil
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id int) (assignment.Assignment, error) {
	var asg assignment.Assignment
	if err := repo.db.GetContext(ctx, &asg, `SELECT * FROM assignments WHERE id = $1`, id); err != nil {
		return assignment.Assignment{}, trapErr(err, "getting assignment by ID", assignment.ErrNotFound)
	}
	return asg, nil
}

func (repo assignmentRepository) QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]assignment.Assignment, error) {
	asgs := make([]assignment.Assignment, 0)
	err := repo.db.SelectContext(ctx, &asgs, `
        SELECT * FROM assignments WHERE course_id = $1
        ORDER BY created_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments by course")
	}
	return asgs, nil
}

func (repo assignmentRepository) UpsertSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	var saved assignment.Submission
	err := repo.db.GetContext(ctx, &saved, `
        INSERT INTO submissions (assignment_id, user_id, content, file_ref, submitted_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT ON CONSTRAINT submissions_assignment_id_user_id_key DO UPDATE
            SET content      = EXCLUDED.content,
                file_ref     = EXCLUDED.file_ref,
                submitted_at = EXCLUDED.submitted_at,
                grade        = NULL,
                feedback     = NULL,
                graded_at    = NULL
        RETURNING *`,
		sub.AssignmentID, sub.UserID, sub.Content, sub.FileRef, sub.SubmittedAt,
	)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "upserting submission")
	}
	return saved, nil
}

func (repo assignmentRepository) GetSubmissionByID(ctx context.Context, id int) (assignment.Submission, error) {
	var sub assignment.Submission
	if err := repo.db.GetContext(ctx, &sub, `SELECT * FROM submissions WHERE id = $1`, id); err != nil {
		return assignment.Submission{}, trapErr(err, "getting submission by ID", assignment.ErrSubmissionNotFound)
	}
	return sub, nil
}

func (repo assignmentRepository) GetSubmissionByAssignmentAndUser(ctx context.Context, assignmentID, userID int) (assignment.Submission, error) {
	var sub assignment.Submission
	err := repo.db.GetContext(ctx, &sub, `
        SELECT * FROM submissions WHERE assignment_id = $1 AND user_id = $2`,
		assignmentID, userID,
	)
	if err != nil {
		return assignment.Submission{}, trapErr(err, "getting submission", assignment.ErrSubmissionNotFound)
	}
	return sub, nil
}

func (repo assignmentRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]assignment.StudentSubmission, error) {
	subs := make([]assignment.StudentSubmission, 0)
	err := repo.db.SelectContext(ctx, &subs, `
        SELECT s.*, u.username, u.first_name, u.last_name
        FROM submissions s
        JOIN users u ON u.id = s.user_id
        WHERE s.assignment_id = $1
        ORDER BY s.submitted_at`,
		assignmentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by assignment")
	}
	return subs, nil
}

func (repo assignmentRepository) GradeSubmission(ctx context.Context, id, grade int, feedback string, gradedAt time.Time) (assignment.Submission, error) {
	var sub assignment.Submission
	err := repo.db.GetContext(ctx, &sub, `
        UPDATE submissions
        SET grade = $1, feedback = $2, graded_at = $3
        WHERE id = $4
        RETURNING *`,
		grade, feedback, gradedAt, id,
	)
	if err != nil {
		return assignment.Submission{}, trapErr(err, "grading submission", assignment.ErrSubmissionNotFound)
	}
	return sub, nil
}
