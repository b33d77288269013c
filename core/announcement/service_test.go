package announcement

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type fakeRepo struct {
	announcements map[int]Announcement
	comments      map[int]Comment
	lastID        int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		announcements: make(map[int]Announcement),
		comments:      make(map[int]Comment),
	}
}

func (r *fakeRepo) CreateAnnouncement(_ context.Context, ann Announcement) (Announcement, error) {
	r.lastID++
	ann.ID = r.lastID
	r.announcements[ann.ID] = ann
	return ann, nil
}

func (r *fakeRepo) GetAnnouncementByID(_ context.Context, id int) (Announcement, error) {
	ann, ok := r.announcements[id]
	if !ok {
		return Announcement{}, ErrNotFound
	}
	return ann, nil
}

func (r *fakeRepo) QueryAnnouncementsByCourse(_ context.Context, courseID int) ([]Announcement, error) {
	anns := make([]Announcement, 0)
	for _, ann := range r.announcements {
		if ann.CourseID == courseID {
			anns = append(anns, ann)
		}
	}
	return anns, nil
}

func (r *fakeRepo) CreateComment(_ context.Context, cmt Comment) (Comment, error) {
	r.lastID++
	cmt.ID = r.lastID
	r.comments[cmt.ID] = cmt
	return cmt, nil
}

func (r *fakeRepo) QueryCommentsByAnnouncement(_ context.Context, announcementID int) ([]AuthorComment, error) {
	cmts := make([]AuthorComment, 0)
	for _, cmt := range r.comments {
		if cmt.AnnouncementID == announcementID {
			cmts = append(cmts, AuthorComment{Comment: cmt})
		}
	}
	return cmts, nil
}

func (r *fakeRepo) DeleteComment(_ context.Context, id, userID int) (bool, error) {
	cmt, ok := r.comments[id]
	if !ok || cmt.UserID != userID {
		return false, nil
	}
	delete(r.comments, id)
	return true, nil
}

// fakeCourses serves a single course with a fixed roster.
type fakeCourses struct {
	crs        course.Course
	students   []user.User
	teacherIDs map[int]bool
	memberIDs  map[int]bool

	listErr error
}

func (d fakeCourses) GetByID(_ context.Context, id int) (course.Course, error) {
	if id != d.crs.ID {
		return course.Course{}, course.ErrNotFound
	}
	return d.crs, nil
}

func (d fakeCourses) ListStudents(_ context.Context, _ int) ([]user.User, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.students, nil
}

func (d fakeCourses) CheckCourseTeacher(_ context.Context, _ int, usr user.User) error {
	if d.teacherIDs[usr.ID] {
		return nil
	}
	return course.ErrNotCourseTeacher
}

func (d fakeCourses) IsMember(_ context.Context, _ int, usr user.User) (bool, error) {
	return d.memberIDs[usr.ID] || d.teacherIDs[usr.ID], nil
}

type recordingSink struct {
	mu   sync.Mutex
	Sent []core.Notification
}

func (s *recordingSink) Send(notifs ...*core.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notifs {
		s.Sent = append(s.Sent, *n)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var (
	teacher  = user.User{ID: 1, ChatID: "100", Role: user.RoleTeacher}
	student1 = user.User{ID: 2, ChatID: "200", FirstName: "Asha", Role: user.RoleStudent}
	student2 = user.User{ID: 3, ChatID: "300", FirstName: "Biko", Role: user.RoleStudent}
	student3 = user.User{ID: 4, ChatID: "400", FirstName: "Chiku", Role: user.RoleStudent}
)

func newTestService(repo Repository, listErr error) (*Service, *recordingSink) {
	courses := fakeCourses{
		crs:        course.Course{ID: 1, Title: "Algebra", TeacherID: teacher.ID},
		students:   []user.User{student1, student2, student3},
		teacherIDs: map[int]bool{teacher.ID: true},
		memberIDs:  map[int]bool{student1.ID: true, student2.ID: true, student3.ID: true},
		listErr:    listErr,
	}
	sink := new(recordingSink)
	svc := NewService(repo, courses, sink, nopLogger{})
	return svc, sink
}

func Test_Service_Create_fanOut(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestService(newFakeRepo(), nil)

	// only course teachers may post
	if _, err := svc.Create(ctx, student1, NewAnnouncement{CourseID: 1, Title: "Exam", Content: "Friday 10am"}); !core.IsForbidden(err) {
		t.Errorf("Create() error = %v, want forbidden", err)
	}

	ann, err := svc.Create(ctx, teacher, NewAnnouncement{CourseID: 1, Title: "Exam", Content: "Friday 10am"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ann.ID == 0 {
		t.Error("Create() ID = 0")
	}

	// every enrolled student gets the announcement
	if len(sink.Sent) != 3 {
		t.Fatalf("Create() sent %d notifications, want 3", len(sink.Sent))
	}
	want := "New announcement in Algebra:\n\nExam\n\nFriday 10am"
	chatIDs := make(map[string]bool)
	for _, notif := range sink.Sent {
		if notif.Text != want {
			t.Errorf("Create() notification text = %q, want %q", notif.Text, want)
		}
		chatIDs[notif.ChatID] = true
	}
	for _, stud := range []user.User{student1, student2, student3} {
		if !chatIDs[stud.ChatID] {
			t.Errorf("Create() no notification for chat %s", stud.ChatID)
		}
	}
}

func Test_Service_Create_fanOutFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestService(newFakeRepo(), fmt.Errorf("roster unavailable"))

	// delivery is best-effort: the announcement is still created
	ann, err := svc.Create(ctx, teacher, NewAnnouncement{CourseID: 1, Title: "Exam", Content: "Friday 10am"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ann.ID == 0 {
		t.Error("Create() ID = 0")
	}
	if len(sink.Sent) != 0 {
		t.Errorf("Create() sent %d notifications, want 0", len(sink.Sent))
	}
}

func Test_Service_AddComment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)

	ann, _ := svc.Create(ctx, teacher, NewAnnouncement{CourseID: 1, Title: "Exam", Content: "Friday 10am"})

	// members only
	outsider := user.User{ID: 99, Role: user.RoleStudent}
	if _, err := svc.AddComment(ctx, outsider, NewComment{AnnouncementID: ann.ID, Content: "when?"}); err != course.ErrNotMember {
		t.Errorf("AddComment() error = %v, want %v", err, course.ErrNotMember)
	}

	cmt, err := svc.AddComment(ctx, student1, NewComment{AnnouncementID: ann.ID, Content: "which room?"})
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if cmt.UserID != student1.ID || cmt.Content != "which room?" {
		t.Errorf("AddComment() = %+v", cmt)
	}

	// teachers can comment too
	if _, err = svc.AddComment(ctx, teacher, NewComment{AnnouncementID: ann.ID, Content: "room 12"}); err != nil {
		t.Errorf("AddComment() error = %v", err)
	}

	cmts, err := svc.ListComments(ctx, ann.ID)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(cmts) != 2 {
		t.Errorf("ListComments() len = %d, want 2", len(cmts))
	}
}

func Test_Service_DeleteComment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)

	ann, _ := svc.Create(ctx, teacher, NewAnnouncement{CourseID: 1, Title: "Exam", Content: "Friday 10am"})
	cmt, _ := svc.AddComment(ctx, student1, NewComment{AnnouncementID: ann.ID, Content: "which room?"})

	tests := []struct {
		name    string
		caller  user.User
		id      int
		wantErr error
	}{
		{name: "not the author", caller: student2, id: cmt.ID, wantErr: ErrCommentForbidden},
		{name: "missing comment", caller: student1, id: 999, wantErr: ErrCommentForbidden},
		{name: "own comment", caller: student1, id: cmt.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.DeleteComment(ctx, tt.caller, tt.id); err != tt.wantErr {
				t.Errorf("DeleteComment() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
