package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleEditor  = "editor"
	RoleViewer  = "viewer"
)

var (
	AllRoles = []string{RoleAdmin, RoleManager, RoleEditor, RoleViewer}

	rolePriorities = map[string]int{
		RoleAdmin:   30,
		RoleManager: 20,
		RoleEditor:  10,
		RoleViewer:  1,
	}

	Roles = []Role{
		{Name: "Viewer", Value: RoleViewer},
		{Name: "Editor", Value: RoleEditor},
		{Name: "Manager", Value: RoleManager},
		{Name: "Admin", Value: RoleAdmin},
	}

	UserTypes = []UserType{
		{ID: "staff", Name: "Staff"},
		{ID: "operator", Name: "Camera Operator"},
		{ID: "contractor", Name: "Contractor"},
		{ID: "guest", Name: "Guest"},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles ...string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

func userTypeIDs() []string {
	ids := make([]string, len(UserTypes))
	for i, ut := range UserTypes {
		ids[i] = ut.ID
	}
	return ids
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type UserType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sortable fields of a User; FilterField is the one the search box matches.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldRole      = "role"
	FieldUserType  = "user_type"
	FieldVerified  = "verified"
	FieldIsActive  = "is_active"
	FieldCreatedAt = "created_at"
	FieldLastLogin = "last_login"

	FilterField = FieldName
)

var DefaultSort = tableview.SortState{OrderBy: FieldName, Order: tableview.Ascending}

type User struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Role          string     `json:"role" db:"role"`
	UserType      string     `json:"user_type" db:"user_type"`
	Verified      bool       `json:"verified" db:"verified"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	ProfilePicURL string     `json:"profile_pic_url" db:"profile_pic_url"`
	PasswordHash  []byte     `json:"-" db:"password_hash"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`           // UTC
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`           // UTC
	LastLogin     *time.Time `json:"last_login,omitempty" db:"last_login"` // UTC
}

var _ tableview.Row = User{}

func (u User) RowID() string { return u.ID }

func (u User) FieldValue(field string) (interface{}, bool) {
	switch field {
	case FieldName:
		return u.Name, true
	case FieldEmail:
		return u.Email, true
	case FieldRole:
		return RolePriority(u.Role), true
	case FieldUserType:
		return u.UserType, true
	case FieldVerified:
		return u.Verified, true
	case FieldIsActive:
		return u.IsActive, true
	case FieldCreatedAt:
		return u.CreatedAt, true
	case FieldLastLogin:
		if u.LastLogin == nil {
			return nil, false
		}
		return *u.LastLogin, true
	}
	return nil, false
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,role"`
	UserType        string `json:"user_type" validate:"required,user_type"`
	Verified        bool   `json:"verified"`
	ProfilePicURL   string `json:"profile_pic_url" validate:"required,url"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.ProfilePicURL = core.CleanString(nu.ProfilePicURL)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty fields keep their current value.
type UpdateUser struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"omitempty,role"`
	UserType        string `json:"user_type" validate:"omitempty,user_type"`
	Verified        *bool  `json:"verified"`
	IsActive        *bool  `json:"is_active"`
	ProfilePicURL   string `json:"profile_pic_url" validate:"omitempty,url"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if role := core.CleanString(uu.Role, true /* lower */); role != "" {
		uu.Role = role
	} else {
		uu.Role = origUsr.Role
	}

	if userType := core.CleanString(uu.UserType); userType != "" {
		uu.UserType = userType
	} else {
		uu.UserType = origUsr.UserType
	}

	if pic := core.CleanString(uu.ProfilePicURL); pic != "" {
		uu.ProfilePicURL = pic
	} else {
		uu.ProfilePicURL = origUsr.ProfilePicURL
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Email, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }
