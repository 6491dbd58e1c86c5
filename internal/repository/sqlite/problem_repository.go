package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type problemRepository struct {
	db *sql.DB
}

// NewProblemRepository creates a ProblemRepository backed by the
// problems table.
func NewProblemRepository(db *sql.DB) repository.ProblemRepository {
	return &problemRepository{db: db}
}

func (r *problemRepository) Get(ctx context.Context, id string) (*models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	log.Debug("getting problem: id=%s", id)

	var p models.Problem
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, category, difficulty, description, created_at
FROM problems
WHERE id = ?
`, id).Scan(&p.ID, &p.Title, &p.Category, &p.Difficulty, &p.Description, &p.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		log.Debug("problem not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get problem: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *problemRepository) BatchGet(ctx context.Context, ids []string) (map[string]models.ProblemSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	log.Debug("batch getting %d problems", len(ids))

	out := make(map[string]models.ProblemSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := sqlBuilder.
		Select("id", "title", "category", "difficulty").
		From("problems").
		Where(squirrel.Eq{"id": ids})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build batch query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to batch get problems: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var s models.ProblemSummary
		if err := rows.Scan(&id, &s.Title, &s.Category, &s.Difficulty); err != nil {
			log.Error("failed to scan problem row: %v", err)
			return nil, err
		}
		out[id] = s
	}
	log.Debug("resolved %d of %d problems", len(out), len(ids))
	return out, rows.Err()
}

func (r *problemRepository) List(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	log.Debug("listing problems: category=%s, difficulty=%s, query=%s",
		filter.Category, filter.Difficulty, filter.Query)

	query := applyFilter(sqlBuilder.
		Select("id", "title", "category", "difficulty", "description", "created_at").
		From("problems"), filter).
		OrderBy("created_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list problems: %v", err)
		return nil, err
	}
	defer rows.Close()
	var problems []models.Problem
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Difficulty, &p.Description, &p.CreatedAt); err != nil {
			log.Error("failed to scan problem row: %v", err)
			return nil, err
		}
		problems = append(problems, p)
	}
	log.Debug("found %d problems", len(problems))
	return problems, rows.Err()
}

func (r *problemRepository) Count(ctx context.Context, filter models.ProblemFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")

	query := applyFilter(sqlBuilder.Select("COUNT(*)").From("problems"), filter)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count problems: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *problemRepository) Categories(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT category FROM problems WHERE category != '' ORDER BY category
`)
	if err != nil {
		log.Error("failed to list categories: %v", err)
		return nil, err
	}
	defer rows.Close()
	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			log.Error("failed to scan category row: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *problemRepository) Upsert(ctx context.Context, p models.Problem) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	log.Debug("upserting problem: title=%s", p.Title)

	// Generated problems are deduplicated by title.
	var existingID string
	err := r.db.QueryRowContext(ctx, `
SELECT id FROM problems WHERE title = ?
`, p.Title).Scan(&existingID)
	if err == nil {
		log.Debug("problem already exists: id=%s", existingID)
		return existingID, nil
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		log.Error("failed to check for existing problem: %v", err)
		return "", err
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO problems (id, title, category, difficulty, description, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, id, p.Title, p.Category, p.Difficulty, p.Description, createdAt)
	if err != nil {
		log.Error("failed to insert problem: %v", err)
		return "", err
	}
	log.Debug("problem inserted: id=%s", id)
	return id, nil
}

func applyFilter(query squirrel.SelectBuilder, filter models.ProblemFilter) squirrel.SelectBuilder {
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"title": like},
			squirrel.Like{"description": like},
		})
	}
	return query
}
