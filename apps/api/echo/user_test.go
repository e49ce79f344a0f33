package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/dashboard/apps/api/echo"
	"github.com/trezcool/dashboard/core/user"
)

func Test_userAPI_login(t *testing.T) {
	app := setup(t)
	app.createUser(t, "Active", "active@test.cd", user.RoleViewer, true)
	app.createUser(t, "Naughty", "naughty@test.cd", user.RoleViewer, false)

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"this field is required","password":"this field is required"}`),
		},
		{
			name:     "unknown email",
			body:     marchallObj(t, LoginRequest{Email: "ghost@test.cd", Password: testPassword}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Email: "active@test.cd", Password: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "deactivated account",
			body:     marchallObj(t, LoginRequest{Email: "naughty@test.cd", Password: testPassword}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/login"
	}
	runHTTPTests(t, app.srv, tests)

	t.Run("success", func(t *testing.T) {
		// email is case-insensitive
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			marchallObj(t, LoginRequest{Email: " Active@Test.cd", Password: testPassword}))
		app.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)

		usr, err := app.usrRepo.GetUserByEmail(context.Background(), "active@test.cd")
		require.NoError(t, err)
		if assert.NotNil(t, usr.LastLogin) {
			assert.True(t, usr.LastLogin.Equal(app.now.UTC()))
		}

		// the token authenticates
		req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+usr.ID, resp.Token)
		app.srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func Test_userAPI_refreshToken(t *testing.T) {
	app := setup(t)
	usr := app.createUser(t, "Viewer", "viewer@test.cd", user.RoleViewer, true)

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/v1/users/token-refresh",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", app.getToken(t, usr))
	app.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
}

func Test_userAPI_list(t *testing.T) {
	app := setup(t)
	viewer := app.createUser(t, "Dora", "dora@test.cd", user.RoleViewer, true)
	manager := app.createUser(t, "Bob", "bob@test.cd", user.RoleManager, true)
	app.createUser(t, "Carl", "carl@test.cd", user.RoleEditor, true)
	app.createUser(t, "Alice", "alice@test.cd", user.RoleEditor, true)
	app.createUser(t, "Bobby", "bobby@test.cd", user.RoleViewer, false)
	app.createUser(t, "Eve", "eve@test.cd", user.RoleViewer, true)
	app.createUser(t, "Abe", "abe@test.cd", user.RoleViewer, true)

	token := app.getToken(t, manager)

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/users",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "viewers cannot list users",
			method:   http.MethodGet,
			path:     "/v1/users",
			token:    app.getToken(t, viewer),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "bad paging",
			method:   http.MethodGet,
			path:     "/v1/users?page=-1&rows_per_page=500",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"page":"must be a non-negative integer","rows_per_page":"must be an integer between 1 and 100"}`),
		},
	})

	type page struct {
		Rows        []user.User `json:"rows"`
		EmptyRows   int         `json:"empty_rows"`
		Total       int         `json:"total"`
		Page        int         `json:"page"`
		RowsPerPage int         `json:"rows_per_page"`
		IsEmpty     bool        `json:"is_empty"`
	}
	names := func(p page) []string {
		var res []string
		for _, usr := range p.Rows {
			res = append(res, usr.Name)
		}
		return res
	}

	tests := []struct {
		name          string
		query         string
		wantNames     []string
		wantEmptyRows int
		wantIsEmpty   bool
	}{
		{name: "default sort and page", query: "", wantNames: []string{"Abe", "Alice", "Bob", "Bobby", "Carl"}},
		{name: "second page pads", query: "?page=1", wantNames: []string{"Dora", "Eve"}, wantEmptyRows: 3},
		{name: "descending", query: "?ordering=-name&rows_per_page=3", wantNames: []string{"Eve", "Dora", "Carl"}},
		{name: "by email", query: "?ordering=email&rows_per_page=2", wantNames: []string{"Abe", "Alice"}},
		// the search keeps the collection order, whatever the ordering
		{name: "search bypasses sort", query: "?ordering=name&search=BOB", wantNames: []string{"Bob", "Bobby"}},
		{name: "search no match", query: "?search=zed", wantIsEmpty: true},
		{name: "page past the end", query: "?page=3", wantEmptyRows: 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users"+tt.query, token)
			app.srv.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var p page
			decode(t, rec, &p)
			assertIDs(t, tt.wantNames, names(p))
			assert.Equal(t, tt.wantEmptyRows, p.EmptyRows)
			assert.Equal(t, tt.wantIsEmpty, p.IsEmpty)
			assert.Equal(t, 7, p.Total)
		})
	}
}

func Test_userAPI_create(t *testing.T) {
	app := setup(t)
	manager := app.createUser(t, "Manager", "manager@test.cd", user.RoleManager, true)
	token := app.getToken(t, manager)

	newUser := func(email, role string) user.NewUser {
		return user.NewUser{
			Name:            "New Guy",
			Email:           email,
			Password:        "Kr4zy-horse",
			PasswordConfirm: "Kr4zy-horse",
			Role:            role,
			UserType:        "staff",
			ProfilePicURL:   "https://pics.test.cd/new.png",
		}
	}

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "invalid role",
			method:   http.MethodPost,
			path:     "/v1/users",
			body:     marchallObj(t, newUser("new@test.cd", "boss")),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role":"invalid role"}`),
		},
		{
			name:     "role above own",
			method:   http.MethodPost,
			path:     "/v1/users",
			body:     marchallObj(t, newUser("new@test.cd", user.RoleAdmin)),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role":"not enough rights to set this role"}`),
		},
		{
			name:     "duplicate email",
			method:   http.MethodPost,
			path:     "/v1/users",
			body:     marchallObj(t, newUser("Manager@test.cd", user.RoleViewer)),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"a user with this email already exists"}`),
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/users", token, marchallObj(t, newUser("new@test.cd", user.RoleEditor)))
	app.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created user.User
	decode(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "new@test.cd", created.Email)
	assert.Equal(t, user.RoleEditor, created.Role)
	assert.True(t, created.IsActive)

	msg := app.mailSvc.Last()
	if assert.NotNil(t, msg) {
		assert.Equal(t, "welcome", msg.TemplateName)
		assert.Equal(t, "new@test.cd", msg.To[0].Address)
	}
}

func Test_userAPI_detail(t *testing.T) {
	app := setup(t)
	viewer := app.createUser(t, "Viewer", "viewer@test.cd", user.RoleViewer, true)
	other := app.createUser(t, "Other", "other@test.cd", user.RoleViewer, true)
	manager := app.createUser(t, "Manager", "manager@test.cd", user.RoleManager, true)

	viewerToken := app.getToken(t, viewer)
	managerToken := app.getToken(t, manager)

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "own profile",
			method:   http.MethodGet,
			path:     "/v1/users/" + viewer.ID,
			token:    viewerToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, viewer),
		},
		{
			name:     "others are hidden from viewers",
			method:   http.MethodGet,
			path:     "/v1/users/" + other.ID,
			token:    viewerToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name:     "managers see everyone",
			method:   http.MethodGet,
			path:     "/v1/users/" + other.ID,
			token:    managerToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, other),
		},
		{
			name:     "unknown",
			method:   http.MethodGet,
			path:     "/v1/users/unknown",
			token:    managerToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name:     "viewers cannot change their role",
			method:   http.MethodPut,
			path:     "/v1/users/" + viewer.ID,
			body:     []byte(`{"role":"admin"}`),
			token:    viewerToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "managers cannot promote to admin",
			method:   http.MethodPut,
			path:     "/v1/users/" + other.ID,
			body:     []byte(`{"role":"admin"}`),
			token:    managerToken,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role":"not enough rights to set this role"}`),
		},
		{
			name:     "viewers cannot delete",
			method:   http.MethodDelete,
			path:     "/v1/users/" + viewer.ID,
			token:    viewerToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "no self delete",
			method:   http.MethodDelete,
			path:     "/v1/users/" + manager.ID,
			token:    managerToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
	})

	t.Run("update own name", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+viewer.ID, viewerToken, []byte(`{"name":" Vee "}`))
		app.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var usr user.User
		decode(t, rec, &usr)
		assert.Equal(t, "Vee", usr.Name)
		assert.Equal(t, viewer.Email, usr.Email)
		assert.Equal(t, user.RoleViewer, usr.Role)
	})

	t.Run("manager deletes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+other.ID, managerToken)
		app.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		_, err := app.usrRepo.GetUserByID(context.Background(), other.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})
}

func Test_userAPI_destroyMultiple(t *testing.T) {
	app := setup(t)
	manager := app.createUser(t, "Manager", "manager@test.cd", user.RoleManager, true)
	usr1 := app.createUser(t, "One", "one@test.cd", user.RoleViewer, true)
	usr2 := app.createUser(t, "Two", "two@test.cd", user.RoleViewer, true)
	usr3 := app.createUser(t, "Three", "three@test.cd", user.RoleViewer, true)
	token := app.getToken(t, manager)

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "self in selection",
			method:   http.MethodDelete,
			path:     "/v1/users?id=" + usr1.ID + "&id=" + manager.ID,
			token:    token,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "empty selection",
			method:   http.MethodDelete,
			path:     "/v1/users",
			token:    token,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "selection with unknown ids",
			method:   http.MethodDelete,
			path:     "/v1/users?id=" + usr1.ID + "&id=" + usr3.ID + "&id=gone",
			token:    token,
			wantCode: http.StatusNoContent,
		},
	})

	users, err := app.usrRepo.QueryAllUsers(context.Background())
	require.NoError(t, err)
	var ids []string
	for _, usr := range users {
		ids = append(ids, usr.ID)
	}
	assert.Equal(t, []string{manager.ID, usr2.ID}, ids)
}

func Test_userAPI_passwordReset(t *testing.T) {
	app := setup(t)
	usr := app.createUser(t, "Forgetful", "forgetful@test.cd", user.RoleViewer, true)
	app.createUser(t, "Naughty", "naughty@test.cd", user.RoleViewer, false)

	okResp := SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	}

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "invalid email",
			method:   http.MethodPost,
			path:     "/v1/users/password-reset",
			body:     []byte(`{"email":"nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"email must be a valid email address"}`),
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/v1/users/password-reset",
			body:     []byte(`{"email":"ghost@test.cd"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, okResp),
		},
		{
			name:     "inactive user",
			method:   http.MethodPost,
			path:     "/v1/users/password-reset",
			body:     []byte(`{"email":"naughty@test.cd"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, okResp),
		},
	})
	assert.Nil(t, app.mailSvc.Last())

	req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", []byte(`{"email":"Forgetful@test.cd"}`))
	app.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	msg := app.mailSvc.Last()
	require.NotNil(t, msg)
	assert.Equal(t, "password_reset", msg.TemplateName)
	data, ok := msg.TemplateData.(map[string]string)
	require.True(t, ok)

	newPwd := "N3w-passw0rd"
	confirm := func(token string) user.ResetUserPassword {
		return user.ResetUserPassword{UID: data["UID"], Token: token, Password: newPwd, PasswordConfirm: newPwd}
	}

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "bad token",
			method:   http.MethodPost,
			path:     "/v1/users/password-reset-confirm",
			body:     marchallObj(t, confirm("bad-token")),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "success",
			method:   http.MethodPost,
			path:     "/v1/users/password-reset-confirm",
			body:     marchallObj(t, confirm(data["Token"])),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "Password has been reset with the new password."}),
		},
		{
			name:     "token is single use",
			method:   http.MethodPost,
			path:     "/v1/users/password-reset-confirm",
			body:     marchallObj(t, confirm(data["Token"])),
			wantCode: http.StatusBadRequest,
		},
	})

	updated, err := app.usrRepo.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, updated.CheckPassword(newPwd))
}

func Test_userAPI_catalogues(t *testing.T) {
	app := setup(t)
	viewer := app.createUser(t, "Viewer", "viewer@test.cd", user.RoleViewer, true)
	admin := app.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)

	runHTTPTests(t, app.srv, []httpTest{
		{
			name:     "types",
			method:   http.MethodGet,
			path:     "/v1/users/types",
			token:    app.getToken(t, viewer),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, user.UserTypes),
		},
		{
			name:     "roles need a manager",
			method:   http.MethodGet,
			path:     "/v1/users/roles",
			token:    app.getToken(t, viewer),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "roles",
			method:   http.MethodGet,
			path:     "/v1/users/roles/",
			token:    app.getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, user.Roles),
		},
	})
}
