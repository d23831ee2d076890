// Package postgres provides the PostgreSQL persistence adapter.
//
// Parsed resumes and score sets are stored as JSONB next to the upload
// metadata, so one row carries the whole parse result.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/talentsift/resume-parser/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repo for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ResumeRepo persists and loads resumes using a minimal pgx pool.
type ResumeRepo struct{ Pool PgxPool }

// NewResumeRepo constructs a ResumeRepo with the given pool.
func NewResumeRepo(p PgxPool) *ResumeRepo { return &ResumeRepo{Pool: p} }

// Create stores a new resume and returns its id (generates one if empty).
func (r *ResumeRepo) Create(ctx domain.Context, res domain.Resume) (string, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "resumes"),
	)
	id := res.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	q := `INSERT INTO resumes (id, filename, mime, size, text, status, error, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.Pool.Exec(ctx, q, id, res.Filename, res.MIME, res.Size, res.Text, res.Status, res.Error, now, now)
	if err != nil {
		return "", fmt.Errorf("op=resume.create: %w", err)
	}
	return id, nil
}

// Get loads a resume by id.
func (r *ResumeRepo) Get(ctx domain.Context, id string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Get")
	defer span.End()
	q := `SELECT id, filename, mime, size, text, status, COALESCE(error,''), parsed, scores, created_at, updated_at FROM resumes WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	res, err := scanResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resume{}, fmt.Errorf("op=resume.get: %w", domain.ErrNotFound)
		}
		return domain.Resume{}, fmt.Errorf("op=resume.get: %w", err)
	}
	return res, nil
}

// List returns the most recent resumes, newest first.
func (r *ResumeRepo) List(ctx domain.Context, limit int) ([]domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.List")
	defer span.End()
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, filename, mime, size, text, status, COALESCE(error,''), parsed, scores, created_at, updated_at FROM resumes ORDER BY created_at DESC LIMIT $1`
	rows, err := r.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("op=resume.list: %w", err)
	}
	defer rows.Close()
	var out []domain.Resume
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("op=resume.list: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=resume.list: %w", err)
	}
	return out, nil
}

// UpdateStatus updates a resume's status and optional error message.
func (r *ResumeRepo) UpdateStatus(ctx domain.Context, id string, status domain.ProcessingStatus, errMsg *string) error {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.UpdateStatus")
	defer span.End()
	errVal := ""
	if errMsg != nil {
		errVal = *errMsg
	}
	q := `UPDATE resumes SET status=$2, error=$3, updated_at=$4 WHERE id=$1`
	_, err := r.Pool.Exec(ctx, q, id, status, errVal, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=resume.update_status: %w", err)
	}
	return nil
}

// SaveResult stores the parse result and marks the resume completed.
func (r *ResumeRepo) SaveResult(ctx domain.Context, id string, parsed domain.ParsedResume, scores domain.ScoreSet) error {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.SaveResult")
	defer span.End()
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("op=resume.save_result: %w", err)
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("op=resume.save_result: %w", err)
	}
	q := `UPDATE resumes SET parsed=$2, scores=$3, status=$4, error='', updated_at=$5 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, parsedJSON, scoresJSON, domain.StatusCompleted, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=resume.save_result: %w", err)
	}
	return nil
}

func scanResume(row pgx.Row) (domain.Resume, error) {
	var res domain.Resume
	var parsedJSON, scoresJSON []byte
	if err := row.Scan(&res.ID, &res.Filename, &res.MIME, &res.Size, &res.Text, &res.Status, &res.Error, &parsedJSON, &scoresJSON, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return domain.Resume{}, err
	}
	if len(parsedJSON) > 0 {
		var parsed domain.ParsedResume
		if err := json.Unmarshal(parsedJSON, &parsed); err != nil {
			return domain.Resume{}, fmt.Errorf("parsed column: %w", err)
		}
		res.Parsed = &parsed
	}
	if len(scoresJSON) > 0 {
		var scores domain.ScoreSet
		if err := json.Unmarshal(scoresJSON, &scores); err != nil {
			return domain.Resume{}, fmt.Errorf("scores column: %w", err)
		}
		res.Scores = &scores
	}
	return res, nil
}
