package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/sreshtta/academy/apps/api/echo"
	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	emailsvc "github.com/sreshtta/academy/services/email"
	"github.com/sreshtta/academy/storage/database/dummy"
	testutil "github.com/sreshtta/academy/tests"
)

var (
	conf = &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Sreshtta",
		SecretKey:        "secret",
		DefaultFromEmail: "office@sreshtta.com",
		FrontendBaseURL:  "http://localhost:3000",
		Server:           core.ServerConfig{JWTExpirationDelta: time.Hour},
	}

	student = store.DemoAccounts[0]
	staff   = store.DemoAccounts[1]
	admin   = store.DemoAccounts[2]
	kavya   = academy.User{ID: "4", Name: "Kavya Reddy", Email: "kavya@sreshtta.com", Role: academy.RoleStaff}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

type testApp struct {
	server *Server
	store  *store.Store
	db     *dummydb.DB
	mailer *emailsvc.ConsoleService
}

func setup(t *testing.T) testApp {
	logger := testutil.NewLogger(t)
	validate, translator := academy.NewValidator()

	fixtures := store.Fixtures()
	db := testutil.NewBackend(fixtures)
	s := store.New(store.Options{
		Backend:  db,
		Logger:   logger,
		Validate: validate,
		Seed:     &fixtures,
		Accounts: store.DemoAccounts,
		Now:      func() time.Time { return testutil.Now },
	})
	mailer := emailsvc.NewConsoleServiceMock(conf, logger, nil)

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Store:          s,
		Mailer:         mailer,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return testApp{server: server, store: s, db: db, mailer: mailer}
}

func (app testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.server.ServeHTTP(rec, req)
	return rec
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

func getToken(t *testing.T, usr academy.User) string {
	token, err := GenerateToken(conf, usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
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
	return assert.ObjectsAreEqualValues(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
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

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
