package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const projectColumns = "id, name, niche, description, target_platform, created_at, updated_at"

const settingsColumns = "id, project_id, tts_provider, tts_voice_id, image_provider, image_model, image_style, video_provider, video_model, caption_color, caption_bg_color, caption_position, content_language, creative_context, created_at, updated_at"

// DefaultSettings returns the settings applied to a project that has never
// been configured: ElevenLabs narration, Replicate images, ffmpeg slideshow
// assembly, white-on-black bottom captions.
func DefaultSettings(projectID int64) *ProjectSettings {
	return &ProjectSettings{
		ProjectID:       projectID,
		TTSProvider:     "elevenlabs",
		ImageProvider:   "replicate",
		VideoProvider:   "ffmpeg",
		CaptionColor:    "#FFFFFF",
		CaptionBgColor:  "#000000",
		CaptionPosition: "bottom",
		ContentLanguage: "en",
	}
}

// CreateProject inserts a new project record.
func (s *Store) CreateProject(ctx context.Context, project *Project) (*Project, error) {
	if project == nil {
		return nil, errors.New("project is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO projects (name, niche, description, target_platform, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		project.Name,
		nullableString(project.Niche),
		nullableString(project.Description),
		nullableString(project.TargetPlatform),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a project by identifier. Returns nil when absent.
func (s *Store) GetProject(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects ordered by creation time.
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// SettingsForProject returns the settings row for a project, creating the
// defaults when none exist yet.
func (s *Store) SettingsForProject(ctx context.Context, projectID int64) (*ProjectSettings, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM project_settings WHERE project_id = ?`, projectID)
	settings, err := scanSettings(row)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project settings: %w", err)
	}

	defaults := DefaultSettings(projectID)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO project_settings (
            project_id, tts_provider, tts_voice_id, image_provider, image_model, image_style,
            video_provider, video_model, caption_color, caption_bg_color, caption_position,
            content_language, creative_context, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(project_id) DO NOTHING`,
		defaults.ProjectID,
		defaults.TTSProvider,
		nullableString(defaults.TTSVoiceID),
		defaults.ImageProvider,
		nullableString(defaults.ImageModel),
		nullableString(defaults.ImageStyle),
		defaults.VideoProvider,
		nullableString(defaults.VideoModel),
		nullableString(defaults.CaptionColor),
		nullableString(defaults.CaptionBgColor),
		nullableString(defaults.CaptionPosition),
		nullableString(defaults.ContentLanguage),
		nullableString(defaults.CreativeContext),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert default settings: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM project_settings WHERE project_id = ?`, projectID)
	settings, err = scanSettings(row)
	if err != nil {
		return nil, fmt.Errorf("reload project settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings persists changes to an existing settings row.
func (s *Store) UpdateSettings(ctx context.Context, settings *ProjectSettings) error {
	if settings == nil {
		return errors.New("settings is nil")
	}
	settings.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE project_settings
         SET tts_provider = ?, tts_voice_id = ?, image_provider = ?, image_model = ?,
             image_style = ?, video_provider = ?, video_model = ?, caption_color = ?,
             caption_bg_color = ?, caption_position = ?, content_language = ?,
             creative_context = ?, updated_at = ?
         WHERE id = ?`,
		settings.TTSProvider,
		nullableString(settings.TTSVoiceID),
		settings.ImageProvider,
		nullableString(settings.ImageModel),
		nullableString(settings.ImageStyle),
		settings.VideoProvider,
		nullableString(settings.VideoModel),
		nullableString(settings.CaptionColor),
		nullableString(settings.CaptionBgColor),
		nullableString(settings.CaptionPosition),
		nullableString(settings.ContentLanguage),
		nullableString(settings.CreativeContext),
		settings.UpdatedAt.Format(time.RFC3339Nano),
		settings.ID,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		id             int64
		name           string
		niche          sql.NullString
		description    sql.NullString
		targetPlatform sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)
	if err := scanner.Scan(&id, &name, &niche, &description, &targetPlatform, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	project := &Project{
		ID:             id,
		Name:           name,
		Niche:          niche.String,
		Description:    description.String,
		TargetPlatform: targetPlatform.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		project.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		project.UpdatedAt = updated
	}
	return project, nil
}

func scanSettings(scanner interface{ Scan(dest ...any) error }) (*ProjectSettings, error) {
	var (
		id              int64
		projectID       int64
		ttsProvider     string
		ttsVoiceID      sql.NullString
		imageProvider   string
		imageModel      sql.NullString
		imageStyle      sql.NullString
		videoProvider   string
		videoModel      sql.NullString
		captionColor    sql.NullString
		captionBgColor  sql.NullString
		captionPosition sql.NullString
		contentLanguage sql.NullString
		creativeContext sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&projectID,
		&ttsProvider,
		&ttsVoiceID,
		&imageProvider,
		&imageModel,
		&imageStyle,
		&videoProvider,
		&videoModel,
		&captionColor,
		&captionBgColor,
		&captionPosition,
		&contentLanguage,
		&creativeContext,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	settings := &ProjectSettings{
		ID:              id,
		ProjectID:       projectID,
		TTSProvider:     ttsProvider,
		TTSVoiceID:      ttsVoiceID.String,
		ImageProvider:   imageProvider,
		ImageModel:      imageModel.String,
		ImageStyle:      imageStyle.String,
		VideoProvider:   videoProvider,
		VideoModel:      videoModel.String,
		CaptionColor:    captionColor.String,
		CaptionBgColor:  captionBgColor.String,
		CaptionPosition: captionPosition.String,
		ContentLanguage: contentLanguage.String,
		CreativeContext: creativeContext.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		settings.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		settings.UpdatedAt = updated
	}
	return settings, nil
}
