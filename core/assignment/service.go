package assignment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// unique constraint names shared with the storage layer
const SubmissionConstraint = "submissions_assignment_id_user_id_key"

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("assignment not found")
	ErrSubmissionNotFound = core.NewNotFoundError("submission not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id int) (Assignment, error)
		QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]Assignment, error)
		// UpsertSubmission atomically replaces any prior submission for the
		// same (assignment, user): content, file ref and submitted_at are
		// overwritten, grade/feedback/graded_at cleared.
		UpsertSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id int) (Submission, error)
		GetSubmissionByAssignmentAndUser(ctx context.Context, assignmentID, userID int) (Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]StudentSubmission, error)
		GradeSubmission(ctx context.Context, id, grade int, feedback string, gradedAt time.Time) (Submission, error)
	}

	// CourseGuard is the slice of the course service the assignment engine
	// relies on for authorization.
	CourseGuard interface {
		CheckCourseTeacher(ctx context.Context, courseID int, usr user.User) error
	}

	// UserDirectory resolves user IDs to their chat identities for
	// notification delivery.
	UserDirectory interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	Service struct {
		repo     Repository
		courses  CourseGuard
		users    UserDirectory
		notifSvc core.NotificationService
		blobs    core.BlobStore
		conf     *core.Config
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	courses CourseGuard,
	users UserDirectory,
	notifSvc core.NotificationService,
	blobs core.BlobStore,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		courses:  courses,
		users:    users,
		notifSvc: notifSvc,
		blobs:    blobs,
		conf:     conf,
		logger:   logger,
	}
}

// Create creates an assignment; only course teachers may do so.
func (svc *Service) Create(ctx context.Context, caller user.User, na NewAssignment) (Assignment, error) {
	if err := svc.courses.CheckCourseTeacher(ctx, na.CourseID, caller); err != nil {
		return Assignment{}, err
	}

	maxPoints := na.MaxPoints
	if maxPoints == 0 {
		maxPoints = DefaultMaxPoints
	}
	return svc.repo.CreateAssignment(ctx, Assignment{
		CourseID:    na.CourseID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		MaxPoints:   maxPoints,
		CreatedAt:   nowFunc().UTC(),
	})
}

func (svc *Service) GetByID(ctx context.Context, id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) ListByCourse(ctx context.Context, courseID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByCourse(ctx, courseID)
}

// Submit records the caller's work for an assignment, replacing any prior
// submission (a resubmission resets submitted_at and clears the grade).
// The submitter gets an acknowledgement notification.
func (svc *Service) Submit(ctx context.Context, caller user.User, assignmentID int, ns NewSubmission) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}

	var fileRef string
	if ns.File != nil {
		if ns.File.Size > svc.conf.Uploads.MaxSubmissionFileSize {
			return Submission{}, core.NewValidationError(core.ErrBlobTooLarge,
				core.FieldError{Field: "file", Error: core.ErrBlobTooLarge.Error()})
		}
		if fileRef, err = svc.blobs.Store(ns.File.Name, io.LimitReader(ns.File.Content, svc.conf.Uploads.MaxSubmissionFileSize)); err != nil {
			return Submission{}, errors.Wrap(err, "storing submission file")
		}
	}

	sub, err := svc.repo.UpsertSubmission(ctx, Submission{
		AssignmentID: asg.ID,
		UserID:       caller.ID,
		Content:      ns.Content,
		FileRef:      fileRef,
		SubmittedAt:  nowFunc().UTC(),
	})
	if err != nil {
		return Submission{}, errors.Wrap(err, "upserting submission")
	}

	svc.notifSvc.Send(&core.Notification{
		ChatID: caller.ChatID,
		Name:   caller.FullName(),
		Text:   fmt.Sprintf("Assignment %q submitted successfully!", asg.Title),
	})
	return sub, nil
}

// Grade records a grade and optional feedback on a submission; only
// teachers of the owning course may grade, and the grade must fall within
// [0, max_points]. The student is notified.
func (svc *Service) Grade(ctx context.Context, caller user.User, submissionID int, gs GradeSubmission) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	asg, err := svc.repo.GetAssignmentByID(ctx, sub.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	if err = svc.courses.CheckCourseTeacher(ctx, asg.CourseID, caller); err != nil {
		return Submission{}, err
	}

	grade := *gs.Grade
	if grade < 0 || grade > asg.MaxPoints {
		return Submission{}, core.NewValidationError(nil, core.FieldError{
			Field: "grade",
			Error: fmt.Sprintf("grade must be between 0 and %d", asg.MaxPoints),
		})
	}

	graded, err := svc.repo.GradeSubmission(ctx, sub.ID, grade, gs.Feedback, nowFunc().UTC())
	if err != nil {
		return Submission{}, errors.Wrap(err, "grading submission")
	}

	if student, err := svc.users.GetByID(ctx, sub.UserID); err != nil {
		svc.logger.Error("resolving graded student for notification", err)
	} else {
		svc.notifSvc.Send(&core.Notification{
			ChatID: student.ChatID,
			Name:   student.FullName(),
			Text:   fmt.Sprintf("Your submission for %q was graded: %d/%d", asg.Title, grade, asg.MaxPoints),
		})
	}
	return graded, nil
}

// ListSubmissions returns all submissions for an assignment joined with
// submitter identity; restricted to course teachers.
func (svc *Service) ListSubmissions(ctx context.Context, caller user.User, assignmentID int) ([]StudentSubmission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err = svc.courses.CheckCourseTeacher(ctx, asg.CourseID, caller); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissionsByAssignment(ctx, asg.ID)
}

// GetOwnSubmission returns the caller's submission for an assignment.
func (svc *Service) GetOwnSubmission(ctx context.Context, caller user.User, assignmentID int) (Submission, error) {
	return svc.repo.GetSubmissionByAssignmentAndUser(ctx, assignmentID, caller.ID)
}
