package analytics

import (
	"sort"
	"time"
)

// dayFormat is the calendar-date key used by daily histograms. Dates are
// taken in UTC, the aggregation's reference time zone.
const dayFormat = "2006-01-02"

// CountUnique counts distinct values of key across events. Repeated keys
// count once; an empty input yields 0.
func CountUnique[E any, K comparable](events []E, key func(E) K) int {
	seen := make(map[K]struct{}, len(events))
	for _, e := range events {
		seen[key(e)] = struct{}{}
	}
	return len(seen)
}

// HistogramByDay maps each UTC calendar date ("YYYY-MM-DD") to the number of
// events on that day. Days with zero events are absent, not zero-filled;
// callers needing a gapless series must backfill themselves.
func HistogramByDay[E any](events []E, at func(E) time.Time) map[string]int {
	hist := make(map[string]int)
	for _, e := range events {
		day := at(e).UTC().Format(dayFormat)
		hist[day]++
	}
	return hist
}

// HistogramByCategory maps each category value to its event count. Events
// whose category is absent are attributed to the fallback label. Values are
// counted as provided; no case normalization.
func HistogramByCategory[E any](events []E, category func(E) (string, bool), fallback string) map[string]int {
	hist := make(map[string]int)
	for _, e := range events {
		c, ok := category(e)
		if !ok {
			c = fallback
		}
		hist[c]++
	}
	return hist
}

// Counted pairs a grouping key with its event count.
type Counted[K comparable] struct {
	Key   K
	Count int
}

// CountByKey returns one Counted per distinct key, ordered by first
// appearance in the input. The stable ordering is what makes downstream
// TopN tie-breaking deterministic.
func CountByKey[E any, K comparable](events []E, key func(E) K) []Counted[K] {
	index := make(map[K]int, len(events))
	var out []Counted[K]
	for _, e := range events {
		k := key(e)
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, Counted[K]{Key: k, Count: 1})
	}
	return out
}

// TopN returns the n highest-scoring items in descending score order. The
// sort is stable, so ties keep their input order. Fewer than n items returns
// all of them; the input slice is never mutated.
func TopN[E any](items []E, score func(E) int64, n int) []E {
	ranked := make([]E, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// RankGenresByLikes ranks genres by how many of the given likes fall on
// tracks of that genre, descending, at most n entries. Likes on tracks with
// no genre are excluded entirely; unlike country histograms there is no
// "Unknown" bucket here.
func RankGenresByLikes(likes []LikeRow, n int) []GenreCount {
	var withGenre []LikeRow
	for _, l := range likes {
		if l.Genre != nil && *l.Genre != "" {
			withGenre = append(withGenre, l)
		}
	}

	counts := CountByKey(withGenre, func(l LikeRow) string { return *l.Genre })
	top := TopN(counts, func(c Counted[string]) int64 { return int64(c.Count) }, n)

	out := make([]GenreCount, 0, len(top))
	for _, c := range top {
		out = append(out, GenreCount{Genre: c.Key, Count: c.Count})
	}
	return out
}
