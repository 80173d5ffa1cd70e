package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const jobColumns = "id, video_id, status, current_step, progress, error_message, metadata_json, started_at, completed_at, created_at"

// CreateJob inserts a new generation job for a video: status processing,
// current step script, progress taken from the fixed step table.
func (s *Store) CreateJob(ctx context.Context, videoID int64) (*GenerationJob, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO generation_jobs (
            video_id, status, current_step, progress, error_message, metadata_json,
            started_at, completed_at, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		videoID,
		JobProcessing,
		StepScript,
		ProgressForStep(StepScript),
		nil,
		nil,
		timestamp,
		nil,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetJob(ctx, id)
}

// GetJob fetches a generation job by identifier. Returns nil when absent.
func (s *Store) GetJob(ctx context.Context, id int64) (*GenerationJob, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM generation_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// UpdateJob applies a partial update to a generation job. When the status
// transitions to a terminal value, completed_at is stamped automatically.
func (s *Store) UpdateJob(ctx context.Context, id int64, update JobUpdate) (*GenerationJob, error) {
	setClauses := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if update.Status != nil {
		setClauses = append(setClauses, "status = ?")
		args = append(args, *update.Status)
		if update.Status.Terminal() {
			setClauses = append(setClauses, "completed_at = ?")
			args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
		}
	}
	if update.CurrentStep != nil {
		setClauses = append(setClauses, "current_step = ?")
		args = append(args, *update.CurrentStep)
	}
	if update.Progress != nil {
		setClauses = append(setClauses, "progress = ?")
		args = append(args, *update.Progress)
	}
	if update.ErrorMessage != nil {
		setClauses = append(setClauses, "error_message = ?")
		args = append(args, nullableString(*update.ErrorMessage))
	}
	if update.Metadata != nil {
		encoded, err := marshalJSON(update.Metadata)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, "metadata_json = ?")
		args = append(args, encoded)
	}

	if len(setClauses) == 0 {
		return s.GetJob(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE generation_jobs SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return s.GetJob(ctx, id)
}

// LatestJobByVideo returns the most recently created job for a video, or nil.
func (s *Store) LatestJobByVideo(ctx context.Context, videoID int64) (*GenerationJob, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+jobColumns+` FROM generation_jobs WHERE video_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		videoID,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest job: %w", err)
	}
	return job, nil
}

// JobsByVideo returns the full job history for a video, newest first.
func (s *Store) JobsByVideo(ctx context.Context, videoID int64) ([]*GenerationJob, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+jobColumns+` FROM generation_jobs WHERE video_id = ? ORDER BY created_at DESC, id DESC`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs by video: %w", err)
	}
	defer rows.Close()

	var jobs []*GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*GenerationJob, error) {
	var (
		id           int64
		videoID      int64
		statusStr    string
		currentStep  string
		progress     int
		errorMessage sql.NullString
		metadataRaw  sql.NullString
		startedRaw   sql.NullString
		completedRaw sql.NullString
		createdRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&videoID,
		&statusStr,
		&currentStep,
		&progress,
		&errorMessage,
		&metadataRaw,
		&startedRaw,
		&completedRaw,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	job := &GenerationJob{
		ID:           id,
		VideoID:      videoID,
		Status:       JobStatus(statusStr),
		CurrentStep:  Step(currentStep),
		Progress:     progress,
		ErrorMessage: errorMessage.String,
	}
	meta, err := unmarshalMetadata(metadataRaw)
	if err != nil {
		return nil, err
	}
	job.Metadata = meta

	if started, err := parseTimeString(startedRaw.String); err == nil {
		job.StartedAt = started
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			job.CompletedAt = &completed
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	return job, nil
}
