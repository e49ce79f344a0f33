package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/dashboard/core/room"
)

type roomRepository struct {
	db *table[room.Room]
}

var _ room.Repository = (*roomRepository)(nil)

func NewRoomRepository(db *DB) room.Repository {
	return &roomRepository{db: db.room}
}

func (repo *roomRepository) CheckNameUniqueness(_ context.Context, name string, excludedRooms ...room.Room) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excl := make([]string, len(excludedRooms))
	for i, r := range excludedRooms {
		excl[i] = r.ID
	}
	for _, r := range repo.db.query() {
		if strings.EqualFold(r.Name, name) && !isExcluded(r.ID, excl) {
			return room.ErrNameExists
		}
	}
	return nil
}

func (repo *roomRepository) CreateRoom(_ context.Context, r room.Room) (room.Room, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = uuid.NewString()
	repo.db.insert(r.ID, r)
	return r, nil
}

func (repo *roomRepository) QueryAllRooms(context.Context) ([]room.Room, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.query(), nil
}

func (repo *roomRepository) GetRoomByID(_ context.Context, id string) (room.Room, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.rows[id]; ok {
		return *r, nil
	}
	return room.Room{}, room.ErrNotFound
}

func (repo *roomRepository) UpdateRoom(_ context.Context, r room.Room) (room.Room, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origRoom, ok := repo.db.rows[r.ID]
	if !ok {
		return room.Room{}, room.ErrNotFound
	}
	origRoom.Name = r.Name
	origRoom.Description = r.Description
	origRoom.NumberOfCameras = r.NumberOfCameras
	origRoom.UpdatedAt = r.UpdatedAt
	return *origRoom, nil
}

func (repo *roomRepository) DeleteRoomsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.delete(ids...)
	return nil
}
