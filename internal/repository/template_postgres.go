package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Notifuse/emailbuilder/internal/domain"
)

var templateColumns = []string{
	"id",
	"name",
	"subject",
	"html_body",
	"document",
	"created_at",
	"updated_at",
}

type templateRepository struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

// NewTemplateRepository creates a new PostgreSQL template repository
func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *templateRepository) GetTemplateByName(ctx context.Context, name string) (*domain.Template, error) {
	query, args, err := r.psql.Select(templateColumns...).
		From("templates").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrTemplateNotFound{Message: fmt.Sprintf("template %q not found", name)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

func (r *templateRepository) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	query, args, err := r.psql.Select(templateColumns...).
		From("templates").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*domain.Template{}
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return templates, nil
}

func (r *templateRepository) CreateTemplate(ctx context.Context, template *domain.Template) error {
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	query, args, err := r.psql.Insert("templates").
		Columns(templateColumns...).
		Values(
			template.ID,
			template.Name,
			template.Subject,
			template.HTMLBody,
			template.Document,
			template.CreatedAt,
			template.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) UpdateTemplate(ctx context.Context, template *domain.Template) error {
	template.UpdatedAt = time.Now().UTC()

	query, args, err := r.psql.Update("templates").
		Set("subject", template.Subject).
		Set("html_body", template.HTMLBody).
		Set("document", template.Document).
		Set("updated_at", template.UpdatedAt).
		Where(sq.Eq{"name": template.Name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrTemplateNotFound{Message: fmt.Sprintf("template %q not found", template.Name)}
	}
	return nil
}

func (r *templateRepository) DeleteTemplate(ctx context.Context, name string) error {
	query, args, err := r.psql.Delete("templates").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrTemplateNotFound{Message: fmt.Sprintf("template %q not found", name)}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var template domain.Template
	err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Subject,
		&template.HTMLBody,
		&template.Document,
		&template.CreatedAt,
		&template.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &template, nil
}
