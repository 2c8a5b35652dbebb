package competition

import (
	"context"
	"sort"

	"bitebase/internal/logging"
	"bitebase/internal/metrics"
)

// MinSamples is the smallest market a snapshot is published for.
const MinSamples = 3

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// RecomputeSnapshot rebuilds the snapshot for a city + cuisine. Markets with
// fewer than MinSamples restaurants are skipped and reported as false.
func (s *Service) RecomputeSnapshot(
	ctx context.Context,
	city string,
	cuisine string,
) (bool, error) {
	logger := logging.For("competition")

	samples, err := s.store.ListSamples(ctx, city, cuisine)
	if err != nil {
		metrics.SnapshotRecomputesTotal.WithLabelValues("error").Inc()
		return false, err
	}

	if len(samples) < MinSamples {
		logger.Debug().
			Str("city", city).
			Str("cuisine", cuisine).
			Int("samples", len(samples)).
			Msg("skipping snapshot")
		metrics.SnapshotRecomputesTotal.WithLabelValues("skipped").Inc()
		return false, nil
	}

	snap := Aggregate(city, cuisine, samples)

	logger.Info().
		Str("city", city).
		Str("cuisine", cuisine).
		Float64("avg_rating", snap.AvgRating).
		Float64("median_price_range", snap.MedianPriceRange).
		Int("samples", snap.SampleSize).
		Msg("snapshot recomputed")

	if err := s.store.UpsertSnapshot(ctx, snap); err != nil {
		metrics.SnapshotRecomputesTotal.WithLabelValues("error").Inc()
		return false, err
	}
	metrics.SnapshotRecomputesTotal.WithLabelValues("updated").Inc()
	return true, nil
}

// RecomputeAll walks every (city, cuisine) pair and returns how many
// snapshots were written. It stops at the first store error.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	pairs, err := s.store.ListPairs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		ok, err := s.RecomputeSnapshot(ctx, p.City, p.CuisineType)
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}
	return updated, nil
}

func (s *Service) GetSnapshot(
	ctx context.Context,
	city string,
	cuisine string,
) (*Snapshot, error) {
	return s.store.GetSnapshot(ctx, city, cuisine)
}

// Aggregate computes mean rating, mean and median price range. Unrated
// (rating 0) restaurants do not count toward the mean rating.
func Aggregate(city, cuisine string, samples []Sample) Snapshot {
	prices := make([]float64, len(samples))
	ratingSum, priceSum := 0.0, 0.0
	rated := 0

	for i, smp := range samples {
		prices[i] = float64(smp.PriceRange)
		priceSum += prices[i]
		if smp.Rating > 0 {
			ratingSum += smp.Rating
			rated++
		}
	}
	sort.Float64s(prices)

	avgRating := 0.0
	if rated > 0 {
		avgRating = ratingSum / float64(rated)
	}

	n := float64(len(samples))
	return Snapshot{
		City:             city,
		CuisineType:      cuisine,
		AvgRating:        avgRating,
		AvgPriceRange:    priceSum / n,
		MedianPriceRange: median(prices),
		SampleSize:       len(samples),
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
