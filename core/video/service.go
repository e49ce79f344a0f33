package video

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
)

var (
	// errors
	ErrNotFound = errors.Wrap(core.ErrNotFound, "video")
)

// UploadedMessage is the status message of a successful upload.
const UploadedMessage = "Video uploaded successfully"

type (
	Repository interface {
		CreateVideo(ctx context.Context, video Video) (Video, error)
		QueryAllVideos(ctx context.Context) ([]Video, error)
		GetVideoByID(ctx context.Context, id string) (Video, error)
		DeleteVideosByID(ctx context.Context, ids ...string) error
	}

	// BlobStore keeps the video files.
	BlobStore interface {
		Save(ctx context.Context, name string, r io.Reader) (int64, error)
		Open(ctx context.Context, name string) (io.ReadCloser, error)
		Delete(ctx context.Context, name string) error
	}

	Service interface {
		// Upload stores a validated file and its metadata.
		Upload(ctx context.Context, nv NewVideo, file *File) (Video, error)
		QueryAll(ctx context.Context) ([]Video, error)
		// List returns a page of the videos table. The filter always applies to FilterField.
		List(ctx context.Context, q tableview.Query) (tableview.Page[Video], error)
		GetByID(ctx context.Context, id string) (Video, error)
		// Open returns the video and a reader of its file. The caller closes the reader.
		Open(ctx context.Context, id string) (Video, io.ReadCloser, error)
		// Delete deletes the videos with the given ids and their files; unknown ids are ignored.
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		blobs   BlobStore
		logger  core.Logger
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, blobs BlobStore, logger core.Logger) Service {
	return &service{repo: repo, blobs: blobs, logger: logger, nowFunc: time.Now}
}

func (svc *service) Upload(ctx context.Context, nv NewVideo, file *File) (Video, error) {
	if file.contentType == "" {
		return Video{}, errors.New("uploading an unvalidated file")
	}

	id := uuid.NewString()
	now := svc.nowFunc().UTC()
	storagePath := path.Join(now.Format("2006/01/02"), id+extension(file.contentType))

	size, err := svc.blobs.Save(ctx, storagePath, file.Content)
	if err != nil {
		return Video{}, errors.Wrap(err, "saving video file")
	}

	video, err := svc.repo.CreateVideo(ctx, Video{
		ID:            id,
		Title:         nv.Title,
		Description:   nv.Description,
		Visibility:    nv.Visibility,
		ThumbnailURL:  nv.ThumbnailURL,
		Language:      nv.Language,
		RecordingDate: nv.recordingDate,
		Category:      nv.Category,
		FileName:      path.Base(file.Name),
		ContentType:   file.contentType,
		Size:          size,
		StoragePath:   storagePath,
		CreatedAt:     now,
	})
	if err != nil {
		if dErr := svc.blobs.Delete(ctx, storagePath); dErr != nil {
			svc.logger.Error("removing orphan video file", dErr)
		}
		return Video{}, errors.Wrap(err, "creating video")
	}
	return video, nil
}

func extension(contentType string) string {
	if strings.HasSuffix(contentType, "matroska") {
		return ".mkv"
	}
	return ".mp4"
}

func (svc *service) QueryAll(ctx context.Context) ([]Video, error) {
	return svc.repo.QueryAllVideos(ctx)
}

func (svc *service) List(ctx context.Context, q tableview.Query) (tableview.Page[Video], error) {
	videos, err := svc.repo.QueryAllVideos(ctx)
	if err != nil {
		return tableview.Page[Video]{}, errors.Wrap(err, "querying videos")
	}
	q.Filter.Field = FilterField
	return tableview.Apply(videos, q.Sort, q.Filter, q.Page), nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Video, error) {
	return svc.repo.GetVideoByID(ctx, id)
}

func (svc *service) Open(ctx context.Context, id string) (Video, io.ReadCloser, error) {
	video, err := svc.repo.GetVideoByID(ctx, id)
	if err != nil {
		return Video{}, nil, err
	}
	rc, err := svc.blobs.Open(ctx, video.StoragePath)
	if err != nil {
		return Video{}, nil, errors.Wrap(err, "opening video file")
	}
	return video, rc, nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	videos, err := svc.repo.QueryAllVideos(ctx)
	if err != nil {
		return errors.Wrap(err, "querying videos")
	}
	sel := tableview.Prune(tableview.NewSelection(ids...), videos)
	if sel.Len() == 0 {
		return nil
	}
	if err = svc.repo.DeleteVideosByID(ctx, sel.IDs()...); err != nil {
		return errors.Wrap(err, "deleting videos")
	}
	for _, video := range videos {
		if !sel.Has(video.ID) {
			continue
		}
		if err = svc.blobs.Delete(ctx, video.StoragePath); err != nil {
			svc.logger.Error("deleting video file", err, map[string]interface{}{"video_id": video.ID})
		}
	}
	return nil
}
