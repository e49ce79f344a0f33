package sqlxrepos

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/user"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "email", "role", "user_type", "verified", "is_active", "profile_pic_url",
	"password_hash", "created_at", "updated_at", "last_login",
}

type userRepository struct {
	db core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db core.DBExecutor) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	excl := make([]string, len(excludedUsers))
	for i, usr := range excludedUsers {
		excl[i] = usr.ID
	}
	q := psql.Select("1").From(usersTable).Where("lower(email) = lower(?)", email).Limit(1)
	query, args, err := excludeIDs(q, excl).ToSql()
	if err != nil {
		return errors.Wrap(err, "building select query")
	}

	var found int
	if err = repo.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNoRows(err) {
			return nil
		}
		return errors.Wrap(err, "checking email")
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()
	query, args, err := psql.Insert(usersTable).
		Columns(userColumns...).
		Values(usr.ID, usr.Name, usr.Email, usr.Role, usr.UserType, usr.Verified, usr.IsActive, usr.ProfilePicURL,
			usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building insert query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	query, args, err := psql.Select(userColumns...).From(usersTable).OrderBy("seq").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}
	users := make([]user.User, 0)
	if err = repo.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	return users, nil
}

func (repo *userRepository) getBy(ctx context.Context, pred interface{}, args ...interface{}) (user.User, error) {
	query, qArgs, err := psql.Select(userColumns...).From(usersTable).Where(pred, args...).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building select query")
	}
	var usr user.User
	if err = repo.db.GetContext(ctx, &usr, query, qArgs...); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	return repo.getBy(ctx, "id = ?", id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, "lower(email) = lower(?)", email)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if _, err := uuid.Parse(usr.ID); err != nil {
		return user.User{}, user.ErrNotFound
	}
	q := psql.Update(usersTable).
		Set("name", usr.Name).
		Set("email", usr.Email).
		Set("role", usr.Role).
		Set("user_type", usr.UserType).
		Set("verified", usr.Verified).
		Set("is_active", usr.IsActive).
		Set("profile_pic_url", usr.ProfilePicURL).
		Set("updated_at", usr.UpdatedAt)
	// only save set fields
	if usr.PasswordHash != nil {
		q = q.Set("password_hash", usr.PasswordHash)
	}
	if usr.LastLogin != nil {
		q = q.Set("last_login", *usr.LastLogin)
	}
	query, args, err := q.Where("id = ?", usr.ID).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building update query")
	}

	var updated user.User
	if err = repo.db.GetContext(ctx, &updated, query, args...); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete(usersTable).Where(squirrel.Eq{"id": validIDs(ids)}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
