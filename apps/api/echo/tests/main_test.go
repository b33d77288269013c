package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/material"
	"github.com/trezcool/darasa/core/user"
	blobsvc "github.com/trezcool/darasa/services/blob"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifsvc "github.com/trezcool/darasa/services/notification"
	"github.com/trezcool/darasa/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	conf   *core.Config
	app    echoapi.Server
	db     *inmem.DB
	usrSvc *user.Service
	crsSvc *course.Service
	asgSvc *assignment.Service
	annSvc *announcement.Service
	matSvc *material.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	notifsvc.ClearSentNotifications()

	conf := core.NewTestConfig()
	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	notifSvc := notifsvc.NewConsoleServiceMock()
	blobs := blobsvc.NewMockStore()

	db := inmem.NewDB()
	usrSvc := user.NewService(inmem.NewUserRepository(db))
	crsSvc := course.NewService(inmem.NewCourseRepository(db))
	asgSvc := assignment.NewService(inmem.NewAssignmentRepository(db), crsSvc, usrSvc, notifSvc, blobs, conf, logger)
	annSvc := announcement.NewService(inmem.NewAnnouncementRepository(db), crsSvc, notifSvc, logger)
	matSvc := material.NewService(inmem.NewMaterialRepository(db), crsSvc, blobs, conf)

	app := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         usrSvc,
			CourseSvc:       crsSvc,
			AssignmentSvc:   asgSvc,
			AnnouncementSvc: annSvc,
			MaterialSvc:     matSvc,
		},
	)

	return &testApp{
		conf:   conf,
		app:    app,
		db:     db,
		usrSvc: usrSvc,
		crsSvc: crsSvc,
		asgSvc: asgSvc,
		annSvc: annSvc,
		matSvc: matSvc,
	}
}

func (ta *testApp) createUser(t *testing.T, chatID, username, role string) user.User {
	t.Helper()
	usr, err := ta.usrSvc.GetOrCreateByChatID(context.Background(), user.NewUser{ChatID: chatID, Username: username})
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	if role != user.RoleStudent {
		if usr, err = ta.usrSvc.SetRole(context.Background(), usr.ID, user.UpdateRole{Role: role}); err != nil {
			t.Fatalf("createUser(): %v", err)
		}
	}
	return usr
}

func (ta *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(ta.conf, echoapi.GetUserClaims(ta.conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// waitNotifications polls the mock sink; fan-out runs synchronously in the
// mock so one pass suffices, the loop just guards against slow CI.
func waitNotifications(t *testing.T, want int) []core.Notification {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(notifsvc.SentNotifications) >= want {
			return notifsvc.SentNotifications
		}
		time.Sleep(10 * time.Millisecond)
	}
	return notifsvc.SentNotifications
}
