package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	echoapi "github.com/ViNit736/GFM-record-management-app-sub001/apps/api/echo"
	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
	emailsvc "github.com/ViNit736/GFM-record-management-app-sub001/services/email"
	testutil "github.com/ViNit736/GFM-record-management-app-sub001/tests"
)

func Test_userApi_userLogin(t *testing.T) {
	app := setup(t)

	gfm := testutil.CreateUser(t, usrRepo, "GFM", "gfmuser", "gfm@test.edu", "LolC@t123", []string{user.RoleGFM}, true)
	testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.edu", "LolC@t123", nil, false)

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoapi.LoginRequest{Username: "this field is required", Password: "this field is required"}),
		},
		{
			name: "invalid credentials", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Username: "lol", Password: "lol"}),
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Username: gfm.Username, Password: "lol"}),
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", wantCode: http.StatusForbidden,
			body:     marchallObj(t, echoapi.LoginRequest{Username: "ndog", Password: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "login with username", wantCode: http.StatusOK,
			body: marchallObj(t, echoapi.LoginRequest{Username: gfm.Username, Password: "LolC@t123"}),
		},
		{
			name: "login with email", wantCode: http.StatusOK,
			body: marchallObj(t, echoapi.LoginRequest{Username: gfm.Email, Password: "LolC@t123"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	app := setup(t)

	path := func(search string, isActive *bool, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if isActive != nil {
			if *isActive {
				v.Add("is_active", "true")
			} else {
				v.Add("is_active", "false")
			}
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/v1/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	usr1 := testutil.CreateUser(t, usrRepo, "User", "awe", "awe@test.edu", "", nil, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.edu", "", []string{user.RoleTeacher}, true)
	gfm := testutil.CreateUser(t, usrRepo, "Mentor", "mentor", "mentor@test.edu", "", []string{user.RoleGFM}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.edu", "", []string{user.RoleAdmin}, true)
	principal := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.edu", "", []string{user.RoleAdminPrincipal}, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.edu", "", []string{user.RoleTeacher}, false)

	adminToken := getToken(t, admin)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, teacher), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Get all", path: "/v1/users", token: adminToken,
			wantData: marchallList(t, usr1, teacher, gfm, admin, principal, naughty),
		},
		// filtering
		{name: "search (unknown)", path: path("lol", nil), token: adminToken, wantData: empty},
		{name: "search=MENT", path: path("MENT", nil), token: adminToken, wantData: marchallList(t, gfm)},
		{name: "role (unknown)", path: path("", nil, "lol"), token: adminToken, wantData: empty},
		{name: "role=admin:", path: path("", nil, user.RoleAdmin), token: adminToken, wantData: marchallList(t, admin, principal)},
		{name: "role=gfm:", path: path("", nil, user.RoleGFM), token: adminToken, wantData: marchallList(t, gfm)},
		{
			name: "role=teacher:,gfm:", path: path("", nil, user.RoleTeacher, user.RoleGFM),
			token: adminToken, wantData: marchallList(t, teacher, gfm, naughty),
		},
		{
			name: "is_active=true", path: path("", bPtr(true)),
			token: adminToken, wantData: marchallList(t, usr1, teacher, gfm, admin, principal),
		},
		{name: "is_active=false", path: path("", bPtr(false)), token: adminToken, wantData: marchallList(t, naughty)},
		{name: "combo (empty)", path: path("ndog", bPtr(true), user.RoleTeacher), token: adminToken, wantData: empty},
		{name: "combo (found)", path: path("ndog", bPtr(false), user.RoleTeacher), token: adminToken, wantData: marchallList(t, naughty)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
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

func Test_userApi_userRefreshToken(t *testing.T) {
	app := setup(t)

	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.edu", "", []string{user.RoleTeacher}, false)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.edu", "", []string{user.RoleTeacher}, true)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   teacher.ID,
			Audience:  "Academia",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * core.Conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		IsTeacher:    teacher.IsTeacher(),
		IsGFM:        teacher.IsGFM(),
		IsAdmin:      teacher.IsAdmin(),
		Roles:        teacher.Roles,
	}
	unrefreshableToken, err := echoapi.GenerateToken(unrefreshableClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Inactive user not allowed", token: getToken(t, naughty), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
		{name: "Token refreshed", token: getToken(t, teacher), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userResetPassword(t *testing.T) {
	app := setup(t)

	gfm := testutil.CreateUser(t, usrRepo, "Mentor", "mentor", "mentor@test.edu", "", []string{user.RoleGFM}, true)
	successData := marchallObj(t, echoapi.SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	pathRegex, err := regexp.Compile("/password-reset/.+/.+")
	if err != nil {
		t.Fatalf("regexp.Compile(): %v", err)
	}

	type extraTest struct {
		emailSent bool
		to        mail.Address
	}
	tests := []httpTest{
		{name: "required fields", wantCode: http.StatusBadRequest, wantData: marchallObj(t, echoapi.PasswordResetRequest{Email: "this field is required"})},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: marchallObj(t, echoapi.PasswordResetRequest{Email: "email must be a valid email address"}),
		},
		{
			name: "unknown email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.com"}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: gfm.Email}),
			wantData: successData, extra: extraTest{emailSent: true, to: mail.Address{Name: gfm.Name, Address: gfm.Email}},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-reset"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if extra, ok := tt.extra.(extraTest); ok {
				if extra.emailSent {
					if len(emailsvc.SentMessages) != 1 {
						t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
					}
					msg := emailsvc.SentMessages[0]
					if msg.To[0] != extra.to {
						t.Errorf("failed! To = %v; want %v", msg.To[0], extra.to)
					}
					if !strings.Contains(msg.TextContent, extra.to.Name) {
						t.Errorf("failed! text content does not contain recipient's name \"%s\"", extra.to.Name)
					}
					if !strings.Contains(msg.HTMLContent, extra.to.Name) {
						t.Errorf("failed! HTML content does not contain recipient's name \"%s\"", extra.to.Name)
					}
					if !pathRegex.MatchString(msg.TextContent) {
						t.Errorf("failed! text content does not match pathRegex %v", pathRegex)
					}
					if !pathRegex.MatchString(msg.HTMLContent) {
						t.Errorf("failed! HTML content does not match pathRegex %v", pathRegex)
					}
				} else {
					if len(emailsvc.SentMessages) > 0 {
						t.Errorf("failed! len(SentMessages) = %d; want 0", len(emailsvc.SentMessages))
					}
				}
			}
		})
	}
}

func Test_userApi_userConfirmPasswordReset(t *testing.T) {
	app := setup(t)

	gfm := testutil.CreateUser(t, usrRepo, "Mentor", "mentor", "mentor@test.edu", "lol", []string{user.RoleGFM}, true)
	validUID := user.EncodeUID(gfm)
	validToken, err := user.MakeToken(gfm)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	// generate an expired token
	dayLate := core.Conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	user.NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := user.MakeToken(gfm)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	user.NowFunc = time.Now // reset

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, user.ResetUserPassword{Token: reqMsg, UID: reqMsg, Password: "password must contain at least 8 characters", PasswordConfirm: reqMsg}),
		},
		{
			name: "invalid pwd: min len", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, user.ResetUserPassword{Password: "password must contain at least 8 characters"}),
		},
		{
			name: "invalid pwd: no whitespace", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "l o loll", PasswordConfirm: "l o loll"}),
			wantData: marchallObj(t, user.ResetUserPassword{Password: "password must not contain whitespace"}),
		},
		{
			name: "invalid pwd: not all numeric", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "12345678", PasswordConfirm: "12345678"}),
			wantData: marchallObj(t, user.ResetUserPassword{Password: "password cannot be entirely numeric"}),
		},
		{
			name: "invalid pwd: complexity", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol12345", PasswordConfirm: "lol12345"}),
			wantData: marchallObj(t, user.ResetUserPassword{Password: "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"}),
		},
		{
			name: "invalid pwd: too common", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "P@$$w0rd", PasswordConfirm: "P@$$w0rd"}),
			wantData: marchallObj(t, user.ResetUserPassword{Password: "password is too common"}),
		},
		{
			name: "PasswordConfirm must = Password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "LolC@t123", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, user.ResetUserPassword{PasswordConfirm: "password_confirm must be equal to Password"}),
		},
		{
			name: "invalid uid", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "bG9s", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, user.ResetUserPassword{UID: "invalid value"}),
		},
		{
			name: "invalid token", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "HE4TS-sigsig-sig", UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, user.ResetUserPassword{Token: "invalid value"}),
		},
		{
			name: "expired token", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: expiredToken, UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, user.ResetUserPassword{Token: "invalid value"}),
		},
		{
			name: "valid token", wantCode: http.StatusOK,
			body:     marchallObj(t, user.ResetUserPassword{Token: validToken, UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-reset-confirm"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				refreshedGfm, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: gfm.ID})
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedGfm.PasswordHash, gfm.PasswordHash) {
					t.Fatalf("failed to update new password")
				}
			}
		})
	}
}
