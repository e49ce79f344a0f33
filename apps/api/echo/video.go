package echoapi

import (
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core/user"
	"github.com/trezcool/dashboard/core/video"
)

var errVideoNotFoundInCtx = errors.New("video object not found in echo.Context")

type videoAPI struct {
	svc            video.Service
	validate       *validator.Validate
	maxUploadSize  int64
	defRowsPerPage int
}

func registerVideoAPI(g *echo.Group, jwt echo.MiddlewareFunc, api *videoAPI) {
	vg := g.Group("/videos", jwt)
	editor := roleMiddleware(user.RoleEditor)

	vg.GET("", api.list)
	vg.POST("/upload", api.upload, editor)
	vg.DELETE("", api.destroyMultiple, editor)

	dg := vg.Group("/:id", videoMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.GET("/file", api.download)
	dg.DELETE("", api.destroy, editor)
}

func (api *videoAPI) list(ctx echo.Context) error {
	q, err := bindTableQuery(ctx, video.DefaultSort, api.defRowsPerPage)
	if err != nil {
		return err
	}
	page, err := api.svc.List(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "listing videos")
	}
	return ctx.JSON(http.StatusOK, page)
}

// upload expects a multipart form: the `video` file and the metadata fields.
func (api *videoAPI) upload(ctx echo.Context) error {
	var data video.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return uploadError{errors.Wrap(err, "binding to NewVideo")}
	}
	if err := data.Validate(api.validate); err != nil {
		return uploadError{err}
	}

	var file *video.File
	fh, err := ctx.FormFile(video.FieldFile)
	if err != nil && err != http.ErrMissingFile {
		return uploadError{errors.Wrap(err, "reading video file")}
	}
	if fh != nil {
		var f multipart.File
		if f, err = fh.Open(); err != nil {
			return uploadError{errors.Wrap(err, "opening video file")}
		}
		defer f.Close()
		file = &video.File{Name: fh.Filename, Size: fh.Size, Content: f}
	}
	if err = file.Validate(api.maxUploadSize); err != nil {
		return uploadError{err}
	}

	vid, err := api.svc.Upload(ctx.Request().Context(), data, file)
	if err != nil {
		return uploadError{errors.Wrap(err, "uploading video")}
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{Message: video.UploadedMessage, Video: vid})
}

func (api *videoAPI) retrieve(ctx echo.Context) error {
	vid, ok := ctx.Get(contextObjKey).(video.Video)
	if !ok {
		return errors.Wrap(errVideoNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, vid)
}

func (api *videoAPI) download(ctx echo.Context) error {
	vid, ok := ctx.Get(contextObjKey).(video.Video)
	if !ok {
		return errors.Wrap(errVideoNotFoundInCtx, "retrieving object from context")
	}
	_, rc, err := api.svc.Open(ctx.Request().Context(), vid.ID)
	if err != nil {
		return errors.Wrap(err, "opening video")
	}
	defer rc.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+vid.FileName+`"`)
	return ctx.Stream(http.StatusOK, vid.ContentType, rc)
}

func (api *videoAPI) destroy(ctx echo.Context) error {
	vid, ok := ctx.Get(contextObjKey).(video.Video)
	if !ok {
		return errors.Wrap(errVideoNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), vid.ID); err != nil {
		return errors.Wrap(err, "deleting video")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *videoAPI) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting videos")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func videoMiddleware(svc video.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			vid, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding video by ID")
			}
			ctx.Set(contextObjKey, vid)
			return next(ctx)
		}
	}
}
