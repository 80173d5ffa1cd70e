package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const videoColumns = "id, project_id, title, description, script, content_type, scene_data_json, status, video_url, thumbnail_url, error_message, created_at, updated_at"

// CreateVideo inserts a new video record. Status defaults to pending and
// content type to short when unset.
func (s *Store) CreateVideo(ctx context.Context, video *Video) (*Video, error) {
	if video == nil {
		return nil, errors.New("video is nil")
	}
	if video.Status == "" {
		video.Status = VideoPending
	}
	if video.ContentType == "" {
		video.ContentType = ContentShort
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	sceneJSON, err := marshalSceneData(video.SceneData)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO videos (
            project_id, title, description, script, content_type, scene_data_json,
            status, video_url, thumbnail_url, error_message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.ProjectID,
		video.Title,
		nullableString(video.Description),
		nullableString(video.Script),
		video.ContentType,
		sceneJSON,
		video.Status,
		nullableString(video.VideoURL),
		nullableString(video.ThumbnailURL),
		nullableString(video.ErrorMessage),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetVideo(ctx, id)
}

// GetVideo fetches a video by identifier. Returns nil when absent.
func (s *Store) GetVideo(ctx context.Context, id int64) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// UpdateVideo persists changes to an existing video record.
func (s *Store) UpdateVideo(ctx context.Context, video *Video) error {
	if video == nil {
		return errors.New("video is nil")
	}
	video.UpdatedAt = time.Now().UTC()

	sceneJSON, err := marshalSceneData(video.SceneData)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE videos
         SET project_id = ?, title = ?, description = ?, script = ?, content_type = ?,
             scene_data_json = ?, status = ?, video_url = ?, thumbnail_url = ?,
             error_message = ?, updated_at = ?
         WHERE id = ?`,
		video.ProjectID,
		video.Title,
		nullableString(video.Description),
		nullableString(video.Script),
		video.ContentType,
		sceneJSON,
		video.Status,
		nullableString(video.VideoURL),
		nullableString(video.ThumbnailURL),
		nullableString(video.ErrorMessage),
		video.UpdatedAt.Format(time.RFC3339Nano),
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

// VideosByProject returns all videos for a project ordered by creation time.
func (s *Store) VideosByProject(ctx context.Context, projectID int64) ([]*Video, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+videoColumns+` FROM videos WHERE project_id = ? ORDER BY created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query videos by project: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// ListVideos returns all videos ordered by creation time.
func (s *Store) ListVideos(ctx context.Context) ([]*Video, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func marshalSceneData(data *SceneData) (any, error) {
	if data == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal scene data: %w", err)
	}
	return string(encoded), nil
}

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id           int64
		projectID    int64
		title        string
		description  sql.NullString
		script       sql.NullString
		contentType  string
		sceneData    sql.NullString
		statusStr    string
		videoURL     sql.NullString
		thumbnailURL sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&projectID,
		&title,
		&description,
		&script,
		&contentType,
		&sceneData,
		&statusStr,
		&videoURL,
		&thumbnailURL,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	video := &Video{
		ID:           id,
		ProjectID:    projectID,
		Title:        title,
		Description:  description.String,
		Script:       script.String,
		ContentType:  ContentType(contentType),
		Status:       VideoStatus(statusStr),
		VideoURL:     videoURL.String,
		ThumbnailURL: thumbnailURL.String,
		ErrorMessage: errorMessage.String,
	}
	if sceneData.Valid && sceneData.String != "" {
		var parsed SceneData
		if err := json.Unmarshal([]byte(sceneData.String), &parsed); err != nil {
			return nil, fmt.Errorf("unmarshal scene data: %w", err)
		}
		video.SceneData = &parsed
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		video.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		video.UpdatedAt = updated
	}
	return video, nil
}
