package lock

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Unlock освобождает все ключи, захваченные одним вызовом Lock.
type Unlock func()

// Locker сериализует запись броней по позициям инвентаря.
// Ключи захватываются в отсортированном порядке, чтобы две брони с общими позициями
// не ждали друг друга по кругу.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (Unlock, error)
}

// ItemKey: ключ блокировки позиции.
func ItemKey(id uuid.UUID) string {
	return "lock:item:" + id.String()
}

// ItemKeys: ключи для набора позиций.
func ItemKeys(ids []uuid.UUID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ItemKey(id))
	}
	return keys
}

func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
