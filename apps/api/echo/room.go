package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core/room"
	"github.com/trezcool/dashboard/core/user"
)

var errRoomNotFoundInCtx = errors.New("room object not found in echo.Context")

type roomAPI struct {
	svc            room.Service
	validate       *validator.Validate
	defRowsPerPage int
}

func registerRoomAPI(g *echo.Group, jwt echo.MiddlewareFunc, api *roomAPI) {
	rg := g.Group("/rooms", jwt)
	editor := roleMiddleware(user.RoleEditor)

	rg.GET("", api.list)
	rg.POST("", api.create, editor)
	rg.DELETE("", api.destroyMultiple, editor)
	rg.POST("/selection", api.selection)

	dg := rg.Group("/:id", roomMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, editor)
	dg.DELETE("", api.destroy, editor)
}

func (api *roomAPI) list(ctx echo.Context) error {
	q, err := bindTableQuery(ctx, room.DefaultSort, api.defRowsPerPage)
	if err != nil {
		return err
	}
	page, err := api.svc.List(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "listing rooms")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *roomAPI) create(ctx echo.Context) error {
	var data room.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	rm, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating room")
	}
	return ctx.JSON(http.StatusCreated, rm)
}

func (api *roomAPI) retrieve(ctx echo.Context) error {
	rm, ok := ctx.Get(contextObjKey).(room.Room)
	if !ok {
		return errors.Wrap(errRoomNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, rm)
}

func (api *roomAPI) update(ctx echo.Context) error {
	rm, ok := ctx.Get(contextObjKey).(room.Room)
	if !ok {
		return errors.Wrap(errRoomNotFoundInCtx, "retrieving object from context")
	}

	var data room.UpdateRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRoom")
	}
	if err := data.Validate(ctx.Request().Context(), rm, api.validate, api.svc); err != nil {
		return err
	}

	rm, err := api.svc.Update(ctx.Request().Context(), rm.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating room")
	}
	return ctx.JSON(http.StatusOK, rm)
}

func (api *roomAPI) destroy(ctx echo.Context) error {
	rm, ok := ctx.Get(contextObjKey).(room.Room)
	if !ok {
		return errors.Wrap(errRoomNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), rm.ID); err != nil {
		return errors.Wrap(err, "deleting room")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *roomAPI) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting rooms")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// selection applies a select-all / deselect-all / toggle on the client's selection
// and returns the new one, pruned to the existing rooms.
func (api *roomAPI) selection(ctx echo.Context) error {
	var data room.SelectionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sel, err := api.svc.Select(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "selecting rooms")
	}
	return ctx.JSON(http.StatusOK, SelectionResponse{Selected: sel, Count: sel.Len()})
}

func roomMiddleware(svc room.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			rm, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding room by ID")
			}
			ctx.Set(contextObjKey, rm)
			return next(ctx)
		}
	}
}
