package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/ViNit736/GFM-record-management-app-sub001/apps/api/echo"
	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/report"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
	emailsvc "github.com/ViNit736/GFM-record-management-app-sub001/services/email"
	dummydb "github.com/ViNit736/GFM-record-management-app-sub001/storage/database/dummy"
	testutil "github.com/ViNit736/GFM-record-management-app-sub001/tests"
)

var (
	usrRepo        user.Repository
	rosterRepo     roster.Repository
	attendanceRepo attendance.Repository
	commsRepo      comms.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	t.Helper()

	// debug mode swaps JSON error bodies for raw error strings
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	rosterRepo = dummydb.NewRosterRepository(db)
	attendanceRepo = dummydb.NewAttendanceRepository(db)
	commsRepo = dummydb.NewCommsRepository(db)

	// set up services
	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	rosterSvc := roster.NewService(rosterRepo, logger, nil)
	attendanceSvc := attendance.NewService(attendanceRepo, logger)
	commsSvc := comms.NewService(commsRepo, logger)
	reportSvc := report.NewService(rosterSvc, attendanceSvc, commsSvc, usrSvc, mailSvc, logger)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,

			UserSvc:       usrSvc,
			RosterSvc:     rosterSvc,
			AttendanceSvc: attendanceSvc,
			CommsSvc:      commsSvc,
			ReportSvc:     reportSvc,
		},
	)
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
	extra    interface{}
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

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
