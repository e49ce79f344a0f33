package room

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
)

var (
	// errors
	ErrNotFound   = errors.Wrap(core.ErrNotFound, "room")
	ErrNameExists = errors.New("a room with this name already exists")
)

type (
	Repository interface {
		// CheckNameUniqueness returns ErrNameExists when another room, except excludedRooms, has this name.
		// Names are compared case-insensitively.
		CheckNameUniqueness(ctx context.Context, name string, excludedRooms ...Room) error
		CreateRoom(ctx context.Context, room Room) (Room, error)
		QueryAllRooms(ctx context.Context) ([]Room, error)
		GetRoomByID(ctx context.Context, id string) (Room, error)
		UpdateRoom(ctx context.Context, room Room) (Room, error)
		DeleteRoomsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, name string, exclRooms ...Room) error
		Create(ctx context.Context, nr NewRoom) (Room, error)
		QueryAll(ctx context.Context) ([]Room, error)
		// List returns a page of the rooms table. The filter always applies to FilterField.
		List(ctx context.Context, q tableview.Query) (tableview.Page[Room], error)
		// Select applies a selection change over the current rooms.
		Select(ctx context.Context, sr SelectionRequest) (tableview.Selection, error)
		GetByID(ctx context.Context, id string) (Room, error)
		Update(ctx context.Context, id string, ur UpdateRoom) (Room, error)
		// Delete deletes the rooms with the given ids; unknown ids are ignored.
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo, nowFunc: time.Now}
}

func (svc *service) CheckUniqueness(ctx context.Context, name string, exclRooms ...Room) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, exclRooms...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: FieldName, Error: ErrNameExists.Error()})
		}
		return errors.Wrap(err, "checking name uniqueness")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nr NewRoom) (Room, error) {
	now := svc.nowFunc().UTC()
	room := Room{
		Name:            nr.Name,
		Description:     nr.Description,
		NumberOfCameras: nr.NumberOfCameras,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateRoom(ctx, room)
}

func (svc *service) QueryAll(ctx context.Context) ([]Room, error) {
	return svc.repo.QueryAllRooms(ctx)
}

func (svc *service) List(ctx context.Context, q tableview.Query) (tableview.Page[Room], error) {
	rooms, err := svc.repo.QueryAllRooms(ctx)
	if err != nil {
		return tableview.Page[Room]{}, errors.Wrap(err, "querying rooms")
	}
	q.Filter.Field = FilterField
	return tableview.Apply(rooms, q.Sort, q.Filter, q.Page), nil
}

func (svc *service) Select(ctx context.Context, sr SelectionRequest) (tableview.Selection, error) {
	rooms, err := svc.repo.QueryAllRooms(ctx)
	if err != nil {
		return tableview.Selection{}, errors.Wrap(err, "querying rooms")
	}
	return tableview.ApplyAction(sr.Selected, rooms, sr.Action, sr.ID), nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Room, error) {
	return svc.repo.GetRoomByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ur UpdateRoom) (Room, error) {
	room := Room{
		ID:          id,
		Name:        ur.Name,
		Description: ur.Description,
		UpdatedAt:   svc.nowFunc().UTC(),
	}
	if ur.NumberOfCameras != nil {
		room.NumberOfCameras = *ur.NumberOfCameras
	}
	return svc.repo.UpdateRoom(ctx, room)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	rooms, err := svc.repo.QueryAllRooms(ctx)
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	sel := tableview.Prune(tableview.NewSelection(ids...), rooms)
	if sel.Len() == 0 {
		return nil
	}
	return svc.repo.DeleteRoomsByID(ctx, sel.IDs()...)
}
