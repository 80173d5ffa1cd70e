package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const assetColumns = "id, video_id, asset_type, file_path, file_name, file_size, mime_type, duration_seconds, sort_order, metadata_json, created_at"

// CreateAsset appends a new row to the asset ledger. Rows are never updated
// or deleted by the pipeline.
func (s *Store) CreateAsset(ctx context.Context, asset *VideoAsset) (*VideoAsset, error) {
	if asset == nil {
		return nil, errors.New("asset is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	metadata, err := marshalJSON(asset.Metadata)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO video_assets (
            video_id, asset_type, file_path, file_name, file_size, mime_type,
            duration_seconds, sort_order, metadata_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.VideoID,
		asset.AssetType,
		asset.FilePath,
		asset.FileName,
		asset.FileSize,
		nullableString(asset.MimeType),
		nullableFloat(asset.DurationSeconds),
		asset.SortOrder,
		metadata,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetAsset(ctx, id)
}

// GetAsset fetches an asset by identifier. Returns nil when absent.
func (s *Store) GetAsset(ctx context.Context, id int64) (*VideoAsset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM video_assets WHERE id = ?`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// AssetsByVideo returns assets for a video ordered by (asset_type, sort_order,
// id) so creation order breaks sort-order ties. Passing asset types filters
// the result.
func (s *Store) AssetsByVideo(ctx context.Context, videoID int64, types ...AssetType) ([]*VideoAsset, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + assetColumns + ` FROM video_assets WHERE video_id = ?`
	orderClause := ` ORDER BY asset_type, sort_order, id`

	if len(types) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause, videoID)
	} else {
		placeholders := makePlaceholders(len(types))
		args := make([]any, 0, len(types)+1)
		args = append(args, videoID)
		for _, assetType := range types {
			args = append(args, assetType)
		}
		query := baseQuery + ` AND asset_type IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []*VideoAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// LatestAssetByType returns the most recently created asset of the given
// type, or nil when none exist.
func (s *Store) LatestAssetByType(ctx context.Context, videoID int64, assetType AssetType) (*VideoAsset, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+assetColumns+` FROM video_assets WHERE video_id = ? AND asset_type = ? ORDER BY id DESC LIMIT 1`,
		videoID,
		assetType,
	)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest asset: %w", err)
	}
	return asset, nil
}

// CountAssets returns the total asset count for a video.
func (s *Store) CountAssets(ctx context.Context, videoID int64) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM video_assets WHERE video_id = ?`, videoID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*VideoAsset, error) {
	var (
		id          int64
		videoID     int64
		assetType   string
		filePath    string
		fileName    string
		fileSize    int64
		mimeType    sql.NullString
		duration    sql.NullFloat64
		sortOrder   int
		metadataRaw sql.NullString
		createdRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&videoID,
		&assetType,
		&filePath,
		&fileName,
		&fileSize,
		&mimeType,
		&duration,
		&sortOrder,
		&metadataRaw,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	asset := &VideoAsset{
		ID:        id,
		VideoID:   videoID,
		AssetType: AssetType(assetType),
		FilePath:  filePath,
		FileName:  fileName,
		FileSize:  fileSize,
		MimeType:  mimeType.String,
		SortOrder: sortOrder,
	}
	if duration.Valid {
		value := duration.Float64
		asset.DurationSeconds = &value
	}
	meta, err := unmarshalMetadata(metadataRaw)
	if err != nil {
		return nil, err
	}
	asset.Metadata = meta

	if created, err := parseTimeString(createdRaw.String); err == nil {
		asset.CreatedAt = created
	}
	return asset, nil
}
