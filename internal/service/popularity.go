package service

import (
	"sort"

	"github.com/iliyamo/filmorate/internal/model"
)

// DefaultPopularSize is used when a caller does not ask for a size.
const DefaultPopularSize = 10

// RankPopular returns up to size films with at least one like, ordered by
// like count descending and then by id descending.  films is not
// modified.
func RankPopular(films []*model.Film, size int) ([]*model.Film, error) {
	if size <= 0 {
		return nil, model.Invalid("size", "Size must be positive")
	}
	ranked := make([]*model.Film, 0, len(films))
	for _, f := range films {
		if f.LikeCount() > 0 {
			ranked = append(ranked, f)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		li, lj := ranked[i].LikeCount(), ranked[j].LikeCount()
		if li != lj {
			return li > lj
		}
		return ranked[i].ID > ranked[j].ID
	})
	if len(ranked) > size {
		ranked = ranked[:size]
	}
	return ranked, nil
}
