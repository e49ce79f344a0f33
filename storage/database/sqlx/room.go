package sqlxrepos

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/room"
)

const roomsTable = "rooms"

var roomColumns = []string{"id", "name", "description", "number_of_cameras", "created_at", "updated_at"}

type roomRepository struct {
	db core.DBExecutor
}

var _ room.Repository = (*roomRepository)(nil)

func NewRoomRepository(db core.DBExecutor) room.Repository {
	return &roomRepository{db: db}
}

func (repo *roomRepository) CheckNameUniqueness(ctx context.Context, name string, excludedRooms ...room.Room) error {
	excl := make([]string, len(excludedRooms))
	for i, r := range excludedRooms {
		excl[i] = r.ID
	}
	q := psql.Select("1").From(roomsTable).Where("lower(name) = lower(?)", name).Limit(1)
	query, args, err := excludeIDs(q, excl).ToSql()
	if err != nil {
		return errors.Wrap(err, "building select query")
	}

	var found int
	if err = repo.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNoRows(err) {
			return nil
		}
		return errors.Wrap(err, "checking name")
	}
	return room.ErrNameExists
}

func (repo *roomRepository) CreateRoom(ctx context.Context, r room.Room) (room.Room, error) {
	r.ID = uuid.NewString()
	query, args, err := psql.Insert(roomsTable).
		Columns(roomColumns...).
		Values(r.ID, r.Name, r.Description, r.NumberOfCameras, r.CreatedAt, r.UpdatedAt).
		ToSql()
	if err != nil {
		return room.Room{}, errors.Wrap(err, "building insert query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return room.Room{}, errors.Wrap(err, "inserting room")
	}
	return r, nil
}

func (repo *roomRepository) QueryAllRooms(ctx context.Context) ([]room.Room, error) {
	query, args, err := psql.Select(roomColumns...).From(roomsTable).OrderBy("seq").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}
	rooms := make([]room.Room, 0)
	if err = repo.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting rooms")
	}
	return rooms, nil
}

func (repo *roomRepository) GetRoomByID(ctx context.Context, id string) (room.Room, error) {
	if _, err := uuid.Parse(id); err != nil {
		return room.Room{}, room.ErrNotFound
	}
	query, args, err := psql.Select(roomColumns...).From(roomsTable).Where("id = ?", id).ToSql()
	if err != nil {
		return room.Room{}, errors.Wrap(err, "building select query")
	}
	var r room.Room
	if err = repo.db.GetContext(ctx, &r, query, args...); err != nil {
		if isNoRows(err) {
			return room.Room{}, room.ErrNotFound
		}
		return room.Room{}, errors.Wrap(err, "selecting room")
	}
	return r, nil
}

func (repo *roomRepository) UpdateRoom(ctx context.Context, r room.Room) (room.Room, error) {
	if _, err := uuid.Parse(r.ID); err != nil {
		return room.Room{}, room.ErrNotFound
	}
	query, args, err := psql.Update(roomsTable).
		Set("name", r.Name).
		Set("description", r.Description).
		Set("number_of_cameras", r.NumberOfCameras).
		Set("updated_at", r.UpdatedAt).
		Where("id = ?", r.ID).
		Suffix("RETURNING " + strings.Join(roomColumns, ", ")).
		ToSql()
	if err != nil {
		return room.Room{}, errors.Wrap(err, "building update query")
	}
	var updated room.Room
	if err = repo.db.GetContext(ctx, &updated, query, args...); err != nil {
		if isNoRows(err) {
			return room.Room{}, room.ErrNotFound
		}
		return room.Room{}, errors.Wrap(err, "updating room")
	}
	return updated, nil
}

func (repo *roomRepository) DeleteRoomsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete(roomsTable).Where(squirrel.Eq{"id": validIDs(ids)}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting rooms")
	}
	return nil
}
