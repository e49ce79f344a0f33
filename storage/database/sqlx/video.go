package sqlxrepos

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/video"
)

const videosTable = "videos"

var videoColumns = []string{
	"id", "title", "description", "visibility", "thumbnail_url", "language", "recording_date", "category",
	"file_name", "content_type", "size", "storage_path", "created_at",
}

type videoRepository struct {
	db core.DBExecutor
}

var _ video.Repository = (*videoRepository)(nil)

func NewVideoRepository(db core.DBExecutor) video.Repository {
	return &videoRepository{db: db}
}

func (repo *videoRepository) CreateVideo(ctx context.Context, v video.Video) (video.Video, error) {
	query, args, err := psql.Insert(videosTable).
		Columns(videoColumns...).
		Values(v.ID, v.Title, v.Description, v.Visibility, v.ThumbnailURL, v.Language, v.RecordingDate, v.Category,
			v.FileName, v.ContentType, v.Size, v.StoragePath, v.CreatedAt).
		ToSql()
	if err != nil {
		return video.Video{}, errors.Wrap(err, "building insert query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return video.Video{}, errors.Wrap(err, "inserting video")
	}
	return v, nil
}

func (repo *videoRepository) QueryAllVideos(ctx context.Context) ([]video.Video, error) {
	query, args, err := psql.Select(videoColumns...).From(videosTable).OrderBy("seq").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}
	videos := make([]video.Video, 0)
	if err = repo.db.SelectContext(ctx, &videos, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting videos")
	}
	return videos, nil
}

func (repo *videoRepository) GetVideoByID(ctx context.Context, id string) (video.Video, error) {
	if _, err := uuid.Parse(id); err != nil {
		return video.Video{}, video.ErrNotFound
	}
	query, args, err := psql.Select(videoColumns...).From(videosTable).Where("id = ?", id).ToSql()
	if err != nil {
		return video.Video{}, errors.Wrap(err, "building select query")
	}
	var v video.Video
	if err = repo.db.GetContext(ctx, &v, query, args...); err != nil {
		if isNoRows(err) {
			return video.Video{}, video.ErrNotFound
		}
		return video.Video{}, errors.Wrap(err, "selecting video")
	}
	return v, nil
}

func (repo *videoRepository) DeleteVideosByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete(videosTable).Where(squirrel.Eq{"id": validIDs(ids)}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting videos")
	}
	return nil
}
