package assignment

import (
	"context"
	"io"
	"io/ioutil"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type fakeRepo struct {
	assignments map[int]Assignment
	submissions map[int]Submission
	lastID      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assignments: make(map[int]Assignment),
		submissions: make(map[int]Submission),
	}
}

func (r *fakeRepo) CreateAssignment(_ context.Context, asg Assignment) (Assignment, error) {
	r.lastID++
	asg.ID = r.lastID
	r.assignments[asg.ID] = asg
	return asg, nil
}

func (r *fakeRepo) GetAssignmentByID(_ context.Context, id int) (Assignment, error) {
	asg, ok := r.assignments[id]
	if !ok {
		return Assignment{}, ErrNotFound
	}
	return asg, nil
}

func (r *fakeRepo) QueryAssignmentsByCourse(_ context.Context, courseID int) ([]Assignment, error) {
	asgs := make([]Assignment, 0)
	for _, asg := range r.assignments {
		if asg.CourseID == courseID {
			asgs = append(asgs, asg)
		}
	}
	return asgs, nil
}

func (r *fakeRepo) UpsertSubmission(_ context.Context, sub Submission) (Submission, error) {
	for id, existing := range r.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.UserID == sub.UserID {
			sub.ID = id
			sub.Grade = null.Int{}
			sub.Feedback = null.String{}
			sub.GradedAt = null.Time{}
			r.submissions[id] = sub
			return sub, nil
		}
	}
	r.lastID++
	sub.ID = r.lastID
	r.submissions[sub.ID] = sub
	return sub, nil
}

func (r *fakeRepo) GetSubmissionByID(_ context.Context, id int) (Submission, error) {
	sub, ok := r.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return sub, nil
}

func (r *fakeRepo) GetSubmissionByAssignmentAndUser(_ context.Context, assignmentID, userID int) (Submission, error) {
	for _, sub := range r.submissions {
		if sub.AssignmentID == assignmentID && sub.UserID == userID {
			return sub, nil
		}
	}
	return Submission{}, ErrSubmissionNotFound
}

func (r *fakeRepo) QuerySubmissionsByAssignment(_ context.Context, assignmentID int) ([]StudentSubmission, error) {
	subs := make([]StudentSubmission, 0)
	for _, sub := range r.submissions {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, StudentSubmission{Submission: sub})
		}
	}
	return subs, nil
}

func (r *fakeRepo) GradeSubmission(_ context.Context, id, grade int, feedback string, gradedAt time.Time) (Submission, error) {
	sub, ok := r.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	sub.Grade = null.IntFrom(grade)
	sub.Feedback = null.StringFrom(feedback)
	sub.GradedAt = null.TimeFrom(gradedAt)
	r.submissions[id] = sub
	return sub, nil
}

// fakeGuard allows the listed users to manage any course.
type fakeGuard struct {
	teacherIDs map[int]bool
	err        error
}

func (g fakeGuard) CheckCourseTeacher(_ context.Context, _ int, usr user.User) error {
	if g.teacherIDs[usr.ID] {
		return nil
	}
	if g.err != nil {
		return g.err
	}
	return core.NewForbiddenError("only course teachers can manage this course")
}

type fakeUsers struct {
	users map[int]user.User
}

func (d fakeUsers) GetByID(_ context.Context, id int) (user.User, error) {
	usr, ok := d.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
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

type memBlobs struct {
	blobs map[string][]byte
}

func (b *memBlobs) Store(name string, content io.Reader) (string, error) {
	data, err := ioutil.ReadAll(content)
	if err != nil {
		return "", err
	}
	if b.blobs == nil {
		b.blobs = make(map[string][]byte)
	}
	b.blobs[name] = data
	return name, nil
}

func (b *memBlobs) Path(ref string) string { return "/blobs/" + ref }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var (
	teacher = user.User{ID: 1, ChatID: "100", Username: "teach", Role: user.RoleTeacher}
	student = user.User{ID: 2, ChatID: "200", FirstName: "Asha", Role: user.RoleStudent}
)

func newTestService(repo Repository) (*Service, *recordingSink) {
	sink := new(recordingSink)
	svc := NewService(
		repo,
		fakeGuard{teacherIDs: map[int]bool{teacher.ID: true}},
		fakeUsers{users: map[int]user.User{teacher.ID: teacher, student.ID: student}},
		sink,
		new(memBlobs),
		core.NewTestConfig(),
		nopLogger{},
	)
	return svc, sink
}

func Test_Service_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(newFakeRepo())

	// only course teachers may create assignments
	if _, err := svc.Create(ctx, student, NewAssignment{CourseID: 1, Title: "HW 1"}); !core.IsForbidden(err) {
		t.Errorf("Create() error = %v, want forbidden", err)
	}

	asg, err := svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if asg.MaxPoints != DefaultMaxPoints {
		t.Errorf("Create() MaxPoints = %d, want %d", asg.MaxPoints, DefaultMaxPoints)
	}

	asg, err = svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 2", MaxPoints: 20})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if asg.MaxPoints != 20 {
		t.Errorf("Create() MaxPoints = %d, want 20", asg.MaxPoints)
	}
}

func Test_Service_Submit(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, sink := newTestService(repo)

	asg, _ := svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 1"})

	// unknown assignment
	if _, err := svc.Submit(ctx, student, 999, NewSubmission{Content: "hi"}); !core.IsNotFound(err) {
		t.Errorf("Submit() error = %v, want not found", err)
	}

	sub, err := svc.Submit(ctx, student, asg.ID, NewSubmission{Content: "my answer"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.Content != "my answer" || sub.UserID != student.ID {
		t.Errorf("Submit() = %+v", sub)
	}

	// the submitter gets an acknowledgement
	if len(sink.Sent) != 1 {
		t.Fatalf("Submit() sent %d notifications, want 1", len(sink.Sent))
	}
	want := `Assignment "HW 1" submitted successfully!`
	if sink.Sent[0].Text != want || sink.Sent[0].ChatID != student.ChatID {
		t.Errorf("Submit() notification = %+v, want %q to %q", sink.Sent[0], want, student.ChatID)
	}
}

func Test_Service_Submit_fileTooLarge(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(newFakeRepo())

	asg, _ := svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 1"})

	conf := core.NewTestConfig()
	file := &core.FileUpload{
		Name:    "essay.pdf",
		Size:    conf.Uploads.MaxSubmissionFileSize + 1,
		Content: strings.NewReader("x"),
	}
	_, err := svc.Submit(ctx, student, asg.ID, NewSubmission{File: file})
	if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("Submit() error = %v, want ValidationError", err)
	}
}

func Test_Service_Submit_resubmissionClearsGrade(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	asg, _ := svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 1"})
	first, _ := svc.Submit(ctx, student, asg.ID, NewSubmission{Content: "v1"})

	graded, err := svc.Grade(ctx, teacher, first.ID, GradeSubmission{Grade: intPtr(80), Feedback: "good"})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if !graded.IsGraded() {
		t.Fatal("Grade() submission not graded")
	}

	second, err := svc.Submit(ctx, student, asg.ID, NewSubmission{Content: "v2"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Submit() ID = %d, want %d (replaced row)", second.ID, first.ID)
	}
	if second.IsGraded() || second.Feedback.Valid || second.GradedAt.Valid {
		t.Errorf("Submit() = %+v, want grade cleared", second)
	}
	if second.Content != "v2" {
		t.Errorf("Submit() Content = %q, want v2", second.Content)
	}
}

func Test_Service_Grade(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, sink := newTestService(repo)

	gradedAt := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	nowFunc = func() time.Time { return gradedAt }
	defer func() { nowFunc = time.Now }()

	asg, _ := svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 1", MaxPoints: 50})
	sub, _ := svc.Submit(ctx, student, asg.ID, NewSubmission{Content: "my answer"})
	sink.Sent = nil

	// only course teachers may grade
	if _, err := svc.Grade(ctx, student, sub.ID, GradeSubmission{Grade: intPtr(10)}); !core.IsForbidden(err) {
		t.Errorf("Grade() error = %v, want forbidden", err)
	}

	// grade above max points is rejected
	_, err := svc.Grade(ctx, teacher, sub.ID, GradeSubmission{Grade: intPtr(51)})
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Grade() error = %v, want ValidationError", err)
	}
	if want := "grade must be between 0 and 50"; vErr.Fields[0].Error != want {
		t.Errorf("Grade() field error = %q, want %q", vErr.Fields[0].Error, want)
	}

	graded, err := svc.Grade(ctx, teacher, sub.ID, GradeSubmission{Grade: intPtr(45), Feedback: "well done"})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if graded.Grade.Int != 45 || graded.Feedback.String != "well done" || !graded.GradedAt.Time.Equal(gradedAt) {
		t.Errorf("Grade() = %+v", graded)
	}

	// the student is notified
	if len(sink.Sent) != 1 {
		t.Fatalf("Grade() sent %d notifications, want 1", len(sink.Sent))
	}
	want := `Your submission for "HW 1" was graded: 45/50`
	if sink.Sent[0].Text != want || sink.Sent[0].ChatID != student.ChatID {
		t.Errorf("Grade() notification = %+v, want %q to %q", sink.Sent[0], want, student.ChatID)
	}
}

func Test_Service_ListSubmissions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	asg, _ := svc.Create(ctx, teacher, NewAssignment{CourseID: 1, Title: "HW 1"})
	_, _ = svc.Submit(ctx, student, asg.ID, NewSubmission{Content: "my answer"})

	// students may not review submissions
	if _, err := svc.ListSubmissions(ctx, student, asg.ID); !core.IsForbidden(err) {
		t.Errorf("ListSubmissions() error = %v, want forbidden", err)
	}

	subs, err := svc.ListSubmissions(ctx, teacher, asg.ID)
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("ListSubmissions() len = %d, want 1", len(subs))
	}
}

func intPtr(i int) *int { return &i }
