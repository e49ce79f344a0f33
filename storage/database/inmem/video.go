package inmemdb

import (
	"context"

	"github.com/trezcool/dashboard/core/video"
)

type videoRepository struct {
	db *table[video.Video]
}

var _ video.Repository = (*videoRepository)(nil)

func NewVideoRepository(db *DB) video.Repository {
	return &videoRepository{db: db.video}
}

func (repo *videoRepository) CreateVideo(_ context.Context, v video.Video) (video.Video, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.insert(v.ID, v)
	return v, nil
}

func (repo *videoRepository) QueryAllVideos(context.Context) ([]video.Video, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.query(), nil
}

func (repo *videoRepository) GetVideoByID(_ context.Context, id string) (video.Video, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if v, ok := repo.db.rows[id]; ok {
		return *v, nil
	}
	return video.Video{}, video.ErrNotFound
}

func (repo *videoRepository) DeleteVideosByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.delete(ids...)
	return nil
}
