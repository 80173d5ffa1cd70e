package pipeline

import (
	"context"
	"fmt"

	"contentgen/internal/services"
	"contentgen/internal/store"
)

// StatusReport is the read-model for one video: its row, the newest
// generation job, and the asset ledger grouped by type.
type StatusReport struct {
	Video       *store.Video
	Job         *store.GenerationJob
	Assets      map[store.AssetType][]*store.VideoAsset
	TotalAssets int
}

// Status projects the current state of a video. The job is nil when the
// video has never been run.
func (r *Runner) Status(ctx context.Context, videoID int64) (*StatusReport, error) {
	video, err := r.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, services.Wrap(services.ErrNotFound, "", "status", fmt.Sprintf("video %d not found", videoID), nil)
	}

	job, err := r.store.LatestJobByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	assets, err := r.store.AssetsByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[store.AssetType][]*store.VideoAsset)
	for _, asset := range assets {
		grouped[asset.AssetType] = append(grouped[asset.AssetType], asset)
	}
	return &StatusReport{
		Video:       video,
		Job:         job,
		Assets:      grouped,
		TotalAssets: len(assets),
	}, nil
}
