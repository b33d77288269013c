package announcement

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("announcement not found")
	// a miss and a foreign comment both report Forbidden so that callers
	// cannot probe for comment existence
	ErrCommentForbidden = core.NewForbiddenError("comment not found or not yours to delete")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		GetAnnouncementByID(ctx context.Context, id int) (Announcement, error)
		QueryAnnouncementsByCourse(ctx context.Context, courseID int) ([]Announcement, error)
		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		QueryCommentsByAnnouncement(ctx context.Context, announcementID int) ([]AuthorComment, error)
		// DeleteComment deletes the comment only if it belongs to userID and
		// reports whether a row was deleted.
		DeleteComment(ctx context.Context, id, userID int) (bool, error)
	}

	// CourseDirectory is the slice of the course service the announcement
	// engine relies on for authorization and fan-out targeting.
	CourseDirectory interface {
		GetByID(ctx context.Context, id int) (course.Course, error)
		ListStudents(ctx context.Context, courseID int) ([]user.User, error)
		CheckCourseTeacher(ctx context.Context, courseID int, usr user.User) error
		IsMember(ctx context.Context, courseID int, usr user.User) (bool, error)
	}

	Service struct {
		repo     Repository
		courses  CourseDirectory
		notifSvc core.NotificationService
		logger   core.Logger
	}
)

func NewService(repo Repository, courses CourseDirectory, notifSvc core.NotificationService, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		courses:  courses,
		notifSvc: notifSvc,
		logger:   logger,
	}
}

// Create posts a course announcement and fans a notification out to every
// enrolled student. Delivery is best-effort: one unreachable student never
// blocks the others nor the response.
func (svc *Service) Create(ctx context.Context, caller user.User, na NewAnnouncement) (Announcement, error) {
	if err := svc.courses.CheckCourseTeacher(ctx, na.CourseID, caller); err != nil {
		return Announcement{}, err
	}

	ann, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		CourseID:  na.CourseID,
		Title:     na.Title,
		Content:   na.Content,
		CreatedAt: nowFunc().UTC(),
	})
	if err != nil {
		return Announcement{}, errors.Wrap(err, "creating announcement")
	}

	svc.notifyStudents(ctx, ann)
	return ann, nil
}

func (svc *Service) notifyStudents(ctx context.Context, ann Announcement) {
	crs, err := svc.courses.GetByID(ctx, ann.CourseID)
	if err != nil {
		svc.logger.Error("resolving course for announcement fan-out", err)
		return
	}
	students, err := svc.courses.ListStudents(ctx, ann.CourseID)
	if err != nil {
		svc.logger.Error("listing students for announcement fan-out", err)
		return
	}

	text := fmt.Sprintf("New announcement in %s:\n\n%s\n\n%s", crs.Title, ann.Title, ann.Content)
	notifs := make([]*core.Notification, 0, len(students))
	for _, student := range students {
		notifs = append(notifs, &core.Notification{
			ChatID: student.ChatID,
			Name:   student.FullName(),
			Text:   text,
		})
	}
	svc.notifSvc.Send(notifs...)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(ctx, id)
}

func (svc *Service) ListByCourse(ctx context.Context, courseID int) ([]Announcement, error) {
	return svc.repo.QueryAnnouncementsByCourse(ctx, courseID)
}

// AddComment records a comment by a course member (student or teacher) on
// an announcement.
func (svc *Service) AddComment(ctx context.Context, caller user.User, nc NewComment) (Comment, error) {
	ann, err := svc.repo.GetAnnouncementByID(ctx, nc.AnnouncementID)
	if err != nil {
		return Comment{}, err
	}

	ok, err := svc.courses.IsMember(ctx, ann.CourseID, caller)
	if err != nil {
		return Comment{}, errors.Wrap(err, "checking course membership")
	}
	if !ok {
		return Comment{}, course.ErrNotMember
	}

	return svc.repo.CreateComment(ctx, Comment{
		AnnouncementID: ann.ID,
		UserID:         caller.ID,
		Content:        nc.Content,
		CreatedAt:      nowFunc().UTC(),
	})
}

func (svc *Service) ListComments(ctx context.Context, announcementID int) ([]AuthorComment, error) {
	return svc.repo.QueryCommentsByAnnouncement(ctx, announcementID)
}

// DeleteComment deletes the caller's own comment; anything else is Forbidden.
func (svc *Service) DeleteComment(ctx context.Context, caller user.User, commentID int) error {
	deleted, err := svc.repo.DeleteComment(ctx, commentID, caller.ID)
	if err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	if !deleted {
		return ErrCommentForbidden
	}
	return nil
}
