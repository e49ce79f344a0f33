package user

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
)

type repoFake struct {
	mu    sync.Mutex
	users []User
}

func (repo *repoFake) CheckEmailUniqueness(_ context.Context, email string, excl ...User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
outer:
	for _, usr := range repo.users {
		for _, ex := range excl {
			if ex.ID == usr.ID {
				continue outer
			}
		}
		if usr.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (repo *repoFake) CreateUser(_ context.Context, usr User) (User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	usr.ID = uuid.NewString()
	repo.users = append(repo.users, usr)
	return usr, nil
}

func (repo *repoFake) QueryAllUsers(context.Context) ([]User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return append([]User(nil), repo.users...), nil
}

func (repo *repoFake) GetUserByID(_ context.Context, id string) (User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, usr := range repo.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (repo *repoFake) GetUserByEmail(_ context.Context, email string) (User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, usr := range repo.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (repo *repoFake) UpdateUser(_ context.Context, usr User) (User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, orig := range repo.users {
		if orig.ID != usr.ID {
			continue
		}
		if usr.PasswordHash == nil {
			usr.PasswordHash = orig.PasswordHash
		}
		if usr.LastLogin == nil {
			usr.LastLogin = orig.LastLogin
		}
		repo.users[i] = usr
		return usr, nil
	}
	return User{}, ErrNotFound
}

func (repo *repoFake) DeleteUsersByID(_ context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	kept := repo.users[:0]
	for _, usr := range repo.users {
		del := false
		for _, id := range ids {
			if usr.ID == id {
				del = true
			}
		}
		if !del {
			kept = append(kept, usr)
		}
	}
	repo.users = kept
	return nil
}

var testNow = time.Date(2021, 3, 14, 9, 26, 53, 0, time.UTC)

func setup(t *testing.T) (Service, *repoFake, *MailServiceMock) {
	t.Helper()
	repo := &repoFake{}
	mailSvc := &MailServiceMock{}
	conf := core.NewTestConfig()
	return NewServiceMock(repo, mailSvc, conf, testNow), repo, mailSvc
}

func createUser(t *testing.T, svc Service, name, email string) User {
	t.Helper()
	usr, err := svc.Create(context.Background(), NewUser{
		Name:          name,
		Email:         email,
		Password:      "Pa$$w0rd!",
		Role:          RoleViewer,
		UserType:      "staff",
		ProfilePicURL: "https://example.com/" + name + ".png",
	})
	require.NoError(t, err)
	return usr
}

func TestService_Create(t *testing.T) {
	svc, _, mailSvc := setup(t)
	usr := createUser(t, svc, "Bob", "bob@example.com")

	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.Equal(t, testNow, usr.CreatedAt)
	assert.NoError(t, usr.CheckPassword("Pa$$w0rd!"))

	msg := mailSvc.Last()
	require.NotNil(t, msg)
	assert.Equal(t, "welcome", msg.TemplateName)
	assert.Equal(t, "bob@example.com", msg.To[0].Address)
}

func TestService_CheckUniqueness(t *testing.T) {
	svc, _, _ := setup(t)
	usr := createUser(t, svc, "Bob", "bob@example.com")
	ctx := context.Background()

	err := svc.CheckUniqueness(ctx, "bob@example.com")
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want a validation error, got %v", err)
	assert.Equal(t, FieldEmail, verr.Fields[0].Field)

	assert.NoError(t, svc.CheckUniqueness(ctx, "bob@example.com", usr))
	assert.NoError(t, svc.CheckUniqueness(ctx, "alice@example.com"))
}

func TestService_List(t *testing.T) {
	svc, _, _ := setup(t)
	for _, name := range []string{"Carol", "alice", "Bob", "Dave"} {
		createUser(t, svc, name, strings.ToLower(name)+"@example.com")
	}

	tests := []struct {
		name    string
		query   tableview.Query
		want    []string
		isEmpty bool
	}{
		{
			name:  "sorted ascending",
			query: tableview.Query{Sort: DefaultSort, Page: tableview.PageState{RowsPerPage: 10}},
			want:  []string{"Bob", "Carol", "Dave", "alice"},
		},
		{
			name: "sorted descending, second page",
			query: tableview.Query{
				Sort: tableview.SortState{OrderBy: FieldName, Order: tableview.Descending},
				Page: tableview.PageState{Page: 1, RowsPerPage: 3},
			},
			want: []string{"Bob"},
		},
		{
			name: "filter ignores the requested field",
			query: tableview.Query{
				Sort:   DefaultSort,
				Filter: tableview.FilterState{Field: FieldEmail, Query: "A"},
				Page:   tableview.PageState{RowsPerPage: 10},
			},
			want: []string{"Carol", "alice", "Dave"},
		},
		{
			name: "no match",
			query: tableview.Query{
				Filter: tableview.FilterState{Query: "zed"},
				Page:   tableview.PageState{RowsPerPage: 10},
			},
			want:    []string{},
			isEmpty: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tc.query)
			require.NoError(t, err)
			names := make([]string, 0, len(page.Rows))
			for _, usr := range page.Rows {
				names = append(names, usr.Name)
			}
			assert.Equal(t, tc.want, names)
			assert.Equal(t, tc.isEmpty, page.IsEmpty)
			assert.Equal(t, 4, page.Total)
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, _, _ := setup(t)
	usr := createUser(t, svc, "Bob", "bob@example.com")
	ctx := context.Background()
	inactive := false

	updated, err := svc.Update(ctx, usr, UpdateUser{
		Name:     "Bobby",
		Email:    usr.Email,
		Role:     RoleEditor,
		UserType: usr.UserType,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Name)
	assert.Equal(t, RoleEditor, updated.Role)
	assert.False(t, updated.IsActive)
	assert.NoError(t, updated.CheckPassword("Pa$$w0rd!"), "password is kept")
}

func TestService_Delete(t *testing.T) {
	svc, repo, _ := setup(t)
	bob := createUser(t, svc, "Bob", "bob@example.com")
	alice := createUser(t, svc, "Alice", "alice@example.com")
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, bob.ID, "unknown"))
	assert.Len(t, repo.users, 1)
	assert.Equal(t, alice.ID, repo.users[0].ID)

	require.NoError(t, svc.Delete(ctx))
	assert.Len(t, repo.users, 1)
}

func TestService_PasswordReset(t *testing.T) {
	svc, _, mailSvc := setup(t)
	usr := createUser(t, svc, "Bob", "bob@example.com")
	ctx := context.Background()

	assert.True(t, core.IsNotFound(svc.RequestPasswordReset(ctx, "nobody@example.com")))

	require.NoError(t, svc.RequestPasswordReset(ctx, " BOB@example.com "))
	msg := mailSvc.Last()
	require.NotNil(t, msg)
	require.Equal(t, "password_reset", msg.TemplateName)
	data := msg.TemplateData.(map[string]string)

	t.Run("invalid uid", func(t *testing.T) {
		err := svc.ResetPassword(ctx, ResetUserPassword{UID: "???", Token: data["Token"], Password: "N3w-Pa$$word"})
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("invalid token", func(t *testing.T) {
		err := svc.ResetPassword(ctx, ResetUserPassword{UID: data["UID"], Token: "abc-def", Password: "N3w-Pa$$word"})
		assert.IsType(t, &core.ValidationError{}, err)
	})

	t.Run("success", func(t *testing.T) {
		err := svc.ResetPassword(ctx, ResetUserPassword{UID: data["UID"], Token: data["Token"], Password: "N3w-Pa$$word"})
		require.NoError(t, err)
		got, err := svc.GetByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.NoError(t, got.CheckPassword("N3w-Pa$$word"))
	})

	t.Run("token used twice", func(t *testing.T) {
		err := svc.ResetPassword(ctx, ResetUserPassword{UID: data["UID"], Token: data["Token"], Password: "0ther-Pa$$word"})
		assert.IsType(t, &core.ValidationError{}, err)
	})
}

func TestService_SetLastLogin(t *testing.T) {
	svc, _, _ := setup(t)
	usr := createUser(t, svc, "Bob", "bob@example.com")

	usr, err := svc.SetLastLogin(context.Background(), usr)
	require.NoError(t, err)
	require.NotNil(t, usr.LastLogin)
	assert.Equal(t, testNow, *usr.LastLogin)
	assert.NoError(t, usr.CheckPassword("Pa$$w0rd!"))
}
