package processor

import (
	"sync"

	"github.com/woozymasta/gridoverlay/internal/mgrs"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// EncodeResult is the outcome of encoding one point of a batch.
type EncodeResult struct {
	Point orb.Point
	MGRS  string
	Err   error
}

type encodeJob struct {
	Index int
	Point orb.Point
}

// EncodeBatch encodes pts from crs with up to concurrency workers.
// Results keep the order of pts; failures are reported per point.
func EncodeBatch(codec *mgrs.Codec, pts []orb.Point, crs string, concurrency int) []EncodeResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(pts) {
		concurrency = len(pts)
	}

	jobs := make(chan encodeJob, len(pts))
	results := make([]EncodeResult, len(pts))

	go func() {
		for i, p := range pts {
			jobs <- encodeJob{Index: i, Point: p}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				code, err := codec.Encode(j.Point, crs)
				if err != nil {
					log.Trace().
						Err(err).
						Float64("x", j.Point.X()).
						Float64("y", j.Point.Y()).
						Msg("Failed to encode point")
				}
				// each index is written by exactly one worker
				results[j.Index] = EncodeResult{Point: j.Point, MGRS: code, Err: err}
			}
		}()
	}
	wg.Wait()

	return results
}
