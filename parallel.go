package geoarrow

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tingold/orb-geoarrow/geometry"
)

// Shards smaller than this are not worth a goroutine.
const minShardRows = 8192

// BuildParallel splits geoms into shards, builds each shard with its own
// builder on a separate goroutine and concatenates the results. A zero kind
// is resolved as in Build. Cancelling ctx stops every shard.
func BuildParallel(ctx context.Context, geoms []geometry.Geometry, kind ArrayKind, opts *Options) (Array, error) {
	if len(geoms) == 0 {
		return nil, ErrEmptyInput
	}
	opts = opts.orDefault()

	var err error
	if kind == 0 {
		if kind, err = ResolveKind(geoms); err != nil {
			return nil, err
		}
	}
	dim, err := resolveDim(sliceSource(geoms))
	if err != nil {
		return nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	shardRows := max(minShardRows, (len(geoms)+workers-1)/workers)
	shards := make([]Array, (len(geoms)+shardRows-1)/shardRows)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for s := range shards {
		lo := s * shardRows
		hi := min(lo+shardRows, len(geoms))
		g.Go(func() error {
			arr, err := build(gctx, kind, dim, sliceSource(geoms[lo:hi]), opts)
			if err != nil {
				return fmt.Errorf("shard starting at row %d: %w", lo, err)
			}
			shards[s] = arr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(shards) == 1 {
		return shards[0], nil
	}
	return concat(ctx, shards, opts)
}
