// Package testutil holds the fixtures shared by the tests of the repositories, the API and the CLI.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/dashboard/core/room"
	"github.com/trezcool/dashboard/core/user"
	"github.com/trezcool/dashboard/storage/database"
)

// PrepareDB connects to TEST_DATABASE_URL, migrates it and empties the tables.
// The test is skipped when TEST_DATABASE_URL is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.OpenURL(ctx, dsn)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(ctx, db.DB, "up"); err != nil {
		t.Fatalf("PrepareDB() failed to migrate: %v", err)
	}
	if _, err = db.ExecContext(ctx, "TRUNCATE users, rooms, videos"); err != nil {
		t.Fatalf("PrepareDB() failed to truncate: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		UserType:  user.UserTypes[0].ID,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateRoom(t *testing.T, repo room.Repository, name string, cameras int, createdAt ...time.Time) room.Room {
	t.Helper()
	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	rm, err := repo.CreateRoom(context.Background(), room.Room{
		Name:            name,
		Description:     name + " cameras",
		NumberOfCameras: cameras,
		CreatedAt:       tstamp,
		UpdatedAt:       tstamp,
	})
	if err != nil {
		t.Fatalf("CreateRoom() failed: %v", err)
	}
	return rm
}
