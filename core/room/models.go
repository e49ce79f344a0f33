package room

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
)

// Sortable fields of a Room; FilterField is the one the search box matches.
const (
	FieldName            = "name"
	FieldDescription     = "description"
	FieldNumberOfCameras = "number_of_cameras"
	FieldCreatedAt       = "created_at"
	FieldUpdatedAt       = "updated_at"

	FilterField = FieldName
)

var DefaultSort = tableview.SortState{OrderBy: FieldName, Order: tableview.Ascending}

// Room is a monitored room and its cameras.
type Room struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	NumberOfCameras int       `json:"number_of_cameras" db:"number_of_cameras"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"` // UTC
}

var _ tableview.Row = Room{}

func (r Room) RowID() string { return r.ID }

func (r Room) FieldValue(field string) (interface{}, bool) {
	switch field {
	case FieldName:
		return r.Name, true
	case FieldDescription:
		return r.Description, true
	case FieldNumberOfCameras:
		return r.NumberOfCameras, true
	case FieldCreatedAt:
		return r.CreatedAt, true
	case FieldUpdatedAt:
		return r.UpdatedAt, true
	}
	return nil, false
}

// NewRoom contains information needed to create a new Room.
type NewRoom struct {
	Name            string `json:"name" validate:"required,max=100"`
	Description     string `json:"description" validate:"required"`
	NumberOfCameras int    `json:"number_of_cameras" validate:"min=0"`
}

func (nr *NewRoom) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Description = core.CleanString(nr.Description)

	if err := validate.Struct(nr); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nr.Name)
}

// UpdateRoom defines what information may be provided to modify an existing Room.
// Empty fields keep their current value.
type UpdateRoom struct {
	Name            string `json:"name" validate:"max=100"`
	Description     string `json:"description"`
	NumberOfCameras *int   `json:"number_of_cameras" validate:"omitempty,min=0"`
}

func (ur *UpdateRoom) Validate(ctx context.Context, origRoom Room, validate *validator.Validate, svc Service) error {
	if name := core.CleanString(ur.Name); name != "" {
		ur.Name = name
	} else {
		ur.Name = origRoom.Name
	}

	if desc := core.CleanString(ur.Description); desc != "" {
		ur.Description = desc
	} else {
		ur.Description = origRoom.Description
	}

	if ur.NumberOfCameras == nil {
		n := origRoom.NumberOfCameras
		ur.NumberOfCameras = &n
	}

	if err := validate.Struct(ur); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ur.Name, origRoom)
}

// SelectionRequest is a selection change on the rooms table.
type SelectionRequest struct {
	Selected tableview.Selection `json:"selected"`
	Action   tableview.Action    `json:"action" validate:"required,selection_action"`
	ID       string              `json:"id"`
}

func (sr *SelectionRequest) Validate(validate *validator.Validate) error {
	sr.ID = core.CleanString(sr.ID)
	if err := validate.Struct(sr); err != nil {
		return err
	}
	if sr.Action == tableview.ActionToggle && sr.ID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this field is required"})
	}
	return nil
}

var (
	selectionActionTag  = "selection_action"
	selectionActionText = "invalid selection action"
)

// InitValidators registers the validators of this package.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(selectionActionTag, func(fl validator.FieldLevel) bool {
		return tableview.Action(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, selectionActionTag, selectionActionText)
}
