package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/dashboard/apps/api/echo"
	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/room"
	"github.com/trezcool/dashboard/core/user"
	"github.com/trezcool/dashboard/core/video"
	logsvc "github.com/trezcool/dashboard/services/logger"
	"github.com/trezcool/dashboard/storage/blob"
	inmemdb "github.com/trezcool/dashboard/storage/database/inmem"
	testutil "github.com/trezcool/dashboard/tests"
)

var (
	testPassword = "Sup3r-s3cret!"

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

type testApp struct {
	srv      Server
	conf     *core.Config
	auth     *Auth
	now      time.Time
	usrRepo  user.Repository
	roomRepo room.Repository
	mailSvc  *user.MailServiceMock
	videoSvc video.Service
	fs       afero.Fs
}

func setup(t *testing.T, configure ...func(*core.Config)) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	for _, fn := range configure {
		fn(conf)
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	room.InitValidators(validate, translator)
	video.InitValidators(validate, translator)

	db := inmemdb.Open()
	app := &testApp{
		conf:     conf,
		auth:     NewAuth(conf),
		now:      time.Now(),
		usrRepo:  inmemdb.NewUserRepository(db),
		roomRepo: inmemdb.NewRoomRepository(db),
		mailSvc:  new(user.MailServiceMock),
		fs:       afero.NewMemMapFs(),
	}
	app.videoSvc = video.NewService(inmemdb.NewVideoRepository(db), blob.NewStoreFs(app.fs), logger)

	app.srv = NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		Auth:           app.auth,
		UserSvc:        user.NewServiceMock(app.usrRepo, app.mailSvc, conf, app.now),
		RoomSvc:        room.NewService(app.roomRepo),
		VideoSvc:       app.videoSvc,
	})
	return app
}

func (app *testApp) createUser(t *testing.T, name, email, role string, isActive bool) user.User {
	return testutil.CreateUser(t, app.usrRepo, name, email, testPassword, role, isActive, app.now)
}

func (app *testApp) createRoom(t *testing.T, name string, cameras int) room.Room {
	return testutil.CreateRoom(t, app.roomRepo, name, cameras, app.now)
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := app.auth.GenerateToken(app.auth.UserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, srv Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func assertIDs(t *testing.T, want []string, got []string) {
	t.Helper()
	if len(want) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, want, got)
}
