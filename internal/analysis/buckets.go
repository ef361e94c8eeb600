package analysis

import (
	"math"

	"github.com/KaramelBytes/staffscope-cli/internal/locale"
)

// Bucket is one of the five fixed experience bands.
type Bucket struct {
	Index   int    `json:"index"`
	Arabic  string `json:"ar"`
	English string `json:"en"`
}

// Label returns the bucket label in loc.
func (b Bucket) Label(loc locale.Locale) string { return loc.Buckets[b.Index] }

// upper bounds (inclusive, whole years) of every bucket but the last
var bucketBounds = [...]int{1, 3, 5, 10}

// ExpBucket floors years and places them in a band. Negative, NaN and
// infinite inputs count as zero years.
func ExpBucket(years float64) Bucket {
	y := 0
	if !math.IsNaN(years) && !math.IsInf(years, 0) && years > 0 {
		y = int(math.Min(math.Floor(years), math.MaxInt32))
	}
	idx := len(bucketBounds)
	for i, hi := range bucketBounds {
		if y <= hi {
			idx = i
			break
		}
	}
	return Bucket{Index: idx, Arabic: locale.Arabic.Buckets[idx], English: locale.English.Buckets[idx]}
}
