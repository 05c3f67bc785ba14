package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
	testutil "github.com/ViNit736/GFM-record-management-app-sub001/tests"
)

func Test_commsApi_logCreate(t *testing.T) {
	app := setup(t)

	gfm := testutil.CreateUser(t, usrRepo, "Mentor", "mentor", "mentor@test.edu", "", []string{user.RoleGFM}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.edu", "", []string{user.RoleTeacher}, true)
	gfmToken := getToken(t, gfm)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "GFM required", token: getToken(t, teacher), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "required fields", token: gfmToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_prn": reqFieldMsg, "communication_type": reqFieldMsg, "reason": reqFieldMsg,
			}),
		},
		{
			name: "invalid communication type", token: gfmToken, wantCode: http.StatusBadRequest,
			body: marchallObj(t, comms.NewCommunicationLog{
				StudentPRN: "PRN001", CommunicationType: "sms", Reason: "Absent",
			}),
			wantData: marchallObj(t, map[string]string{"communication_type": "communication_type must be one of [call whatsapp]"}),
		},
		{
			name: "log created", token: gfmToken, wantCode: http.StatusCreated,
			body: marchallObj(t, comms.NewCommunicationLog{
				StudentPRN: "PRN001", CommunicationType: "CALL", Reason: "Absent without notice",
				CustomDescription: "guardian will send a note",
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/comms/logs"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var l comms.CommunicationLog
				if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				// the entry is attributed to the caller; the type is normalized
				if l.GFMID != gfm.ID || l.GFMName != gfm.Username {
					t.Errorf("failed! log = %+v", l)
				}
				if l.ID == "" || l.CommunicationType != comms.TypeCall || l.Timestamp.IsZero() {
					t.Errorf("failed! log = %+v", l)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_commsApi_logQuery(t *testing.T) {
	app := setup(t)

	gfm := testutil.CreateUser(t, usrRepo, "Mentor", "mentor", "mentor@test.edu", "", []string{user.RoleGFM}, true)
	gfmToken := getToken(t, gfm)

	createLog := func(prn string, ts time.Time) comms.CommunicationLog {
		l, err := commsRepo.CreateLog(context.Background(), comms.CommunicationLog{
			GFMID: gfm.ID, GFMName: gfm.Username, StudentPRN: prn,
			CommunicationType: comms.TypeCall, Reason: "Absent", Timestamp: ts,
		})
		if err != nil {
			t.Fatalf("CreateLog() failed: %v", err)
		}
		return l
	}
	l1 := createLog("PRN001", time.Date(2026, 2, 10, 10, 30, 0, 0, time.UTC))
	l2 := createLog("PRN002", time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC))
	l3 := createLog("PRN001", time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC))
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{
			name: "window required", path: "/v1/comms/logs", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"from": "from is required"}),
		},
		{name: "full window", path: "/v1/comms/logs?from=2026-02-01&to=2026-03-31", wantData: marchallList(t, l1, l2, l3)},
		{name: "narrow window", path: "/v1/comms/logs?from=2026-02-01&to=2026-02-28", wantData: marchallList(t, l1, l2)},
		{name: "student filter", path: "/v1/comms/logs?from=2026-02-01&to=2026-03-31&student_prn=PRN001", wantData: marchallList(t, l1, l3)},
		{name: "empty window", path: "/v1/comms/logs?from=2026-01-01&to=2026-01-31", wantData: empty},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.token = gfmToken
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_commsApi_leaveNotes(t *testing.T) {
	app := setup(t)

	gfm := testutil.CreateUser(t, usrRepo, "Mentor", "mentor", "mentor@test.edu", "", []string{user.RoleGFM}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.edu", "", []string{user.RoleTeacher}, true)
	gfmToken := getToken(t, gfm)

	leaveBody := marchallObj(t, comms.NewPreInformedAbsence{
		StudentPRN: "PRN001", StartDate: "2026-02-10", EndDate: "2026-02-12",
		Reason: "family function", ProofURL: "https://drive.test/leave.pdf",
		InformedBy: "father", ContactMethod: comms.TypeWhatsApp,
	})

	tests := []httpTest{
		{
			name: "GFM required", method: http.MethodPost, path: "/v1/comms/leaves", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "required fields", method: http.MethodPost, path: "/v1/comms/leaves", token: gfmToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_prn": reqFieldMsg, "start_date": reqFieldMsg, "end_date": reqFieldMsg, "reason": reqFieldMsg,
			}),
		},
		{
			name: "invalid proof url", method: http.MethodPost, path: "/v1/comms/leaves", token: gfmToken,
			body: marchallObj(t, comms.NewPreInformedAbsence{
				StudentPRN: "PRN001", StartDate: "2026-02-10", EndDate: "2026-02-12",
				Reason: "family function", ProofURL: "lol",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"proof_url": "proof_url must be a valid URL"}),
		},
		{
			name: "inverted span", method: http.MethodPost, path: "/v1/comms/leaves", token: gfmToken,
			body: marchallObj(t, comms.NewPreInformedAbsence{
				StudentPRN: "PRN001", StartDate: "2026-02-12", EndDate: "2026-02-10", Reason: "family function",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"end_date": "end_date must not be before start_date"}),
		},
		{
			name: "leave filed", method: http.MethodPost, path: "/v1/comms/leaves", token: gfmToken,
			body: leaveBody, wantCode: http.StatusCreated,
		},
		{
			name: "overlapping window", method: http.MethodGet, token: gfmToken,
			path: "/v1/comms/leaves?from=2026-02-11&to=2026-02-28", extra: 1,
		},
		{
			name: "disjoint window", method: http.MethodGet, token: gfmToken,
			path:     "/v1/comms/leaves?from=2026-02-13&to=2026-02-28",
			wantData: marchallList(t, []interface{}{}...),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusCreated {
				var pia comms.PreInformedAbsence
				if err := json.Unmarshal(rec.Body.Bytes(), &pia); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if pia.ID == "" || pia.GFMID != gfm.ID || pia.StudentPRN != "PRN001" {
					t.Errorf("failed! leave = %+v", pia)
				}
				if want := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC); !pia.EndDate.Equal(want) {
					t.Errorf("failed! end date = %v; want %v", pia.EndDate, want)
				}
				return
			}
			if n, ok := tt.extra.(int); ok {
				var leaves []comms.PreInformedAbsence
				if err := json.Unmarshal(rec.Body.Bytes(), &leaves); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if len(leaves) != n {
					t.Errorf("failed! len = %v; want %v", len(leaves), n)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
