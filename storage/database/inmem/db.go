// Package inmemdb implements the repositories in memory. Rows are returned in insertion order.
package inmemdb

import (
	"sync"

	"github.com/trezcool/dashboard/core/room"
	"github.com/trezcool/dashboard/core/user"
	"github.com/trezcool/dashboard/core/video"
)

type (
	DB struct {
		user  *table[user.User]
		room  *table[room.Room]
		video *table[video.Video]
	}

	table[T any] struct {
		mutex sync.RWMutex
		rows  map[string]*T
		order []string // ids, by insertion
	}
)

func Open() *DB {
	return &DB{
		user:  newTable[user.User](),
		room:  newTable[room.Room](),
		video: newTable[video.Video](),
	}
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

// query returns copies of all rows. The caller holds the lock.
func (t *table[T]) query() []T {
	rows := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, *t.rows[id])
	}
	return rows
}

// insert adds row. The caller holds the write lock.
func (t *table[T]) insert(id string, row T) {
	t.rows[id] = &row
	t.order = append(t.order, id)
}

// delete removes rows by id. The caller holds the write lock.
func (t *table[T]) delete(ids ...string) {
	del := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := t.rows[id]; ok {
			del[id] = struct{}{}
			delete(t.rows, id)
		}
	}
	if len(del) == 0 {
		return
	}
	order := t.order[:0]
	for _, id := range t.order {
		if _, ok := del[id]; !ok {
			order = append(order, id)
		}
	}
	t.order = order
}

func isExcluded(id string, excluded []string) bool {
	for _, ex := range excluded {
		if ex == id {
			return true
		}
	}
	return false
}
