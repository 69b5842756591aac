package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines storage operations for templates. All operations
// are tenant-scoped; a template belonging to another tenant behaves as
// if it does not exist.
type Repository interface {
	// GetByID returns the template with the given id, or
	// ErrTemplateNotFound.
	GetByID(ctx context.Context, tenant string, id int64) (*Template, error)

	// List returns the matching page of templates ordered per the
	// filter. When withTotal is true the second return value carries the
	// total matching row count; otherwise it is -1.
	List(ctx context.Context, tenant string, f Filter, p Page, withTotal bool) ([]Template, int64, error)

	// Create persists the template and all its attributes atomically,
	// assigning their ids.
	Create(ctx context.Context, t *Template) error

	// Update replaces the template's label and entire attribute set
	// atomically. Returns ErrTemplateNotFound if the template does not
	// exist.
	Update(ctx context.Context, t *Template) error

	// Delete removes the template and all its attributes atomically.
	// Returns ErrTemplateNotFound if the template does not exist.
	Delete(ctx context.Context, tenant string, id int64) error

	// DeleteAll removes every template of the tenant atomically and
	// returns the ids that were removed.
	DeleteAll(ctx context.Context, tenant string) ([]int64, error)
}

// SQLiteRepository implements Repository backed by SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a template repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetByID(ctx context.Context, tenant string, id int64) (*Template, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `
		SELECT id, tenant, label, created_at, updated_at
		FROM templates t WHERE t.id = ? AND t.tenant = ?`, id, tenant))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("querying template %d: %w", id, err)
	}

	if err := r.loadAttrs(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteRepository) List(ctx context.Context, tenant string, f Filter, p Page, withTotal bool) ([]Template, int64, error) {
	where, args, err := f.whereClause(tenant)
	if err != nil {
		return nil, 0, err
	}
	order, err := f.orderBy()
	if err != nil {
		return nil, 0, err
	}

	total := int64(-1)
	if withTotal {
		countQuery := "SELECT COUNT(*) FROM templates t WHERE " + where
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("counting templates: %w", err)
		}
	}

	query := fmt.Sprintf(`
		SELECT id, tenant, label, created_at, updated_at
		FROM templates t WHERE %s ORDER BY %s LIMIT ? OFFSET ?`, where, order)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	templates := make([]Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating templates: %w", err)
	}

	for i := range templates {
		if err := r.loadAttrs(ctx, &templates[i]); err != nil {
			return nil, 0, err
		}
	}

	return templates, total, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, t *Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
		INSERT INTO templates (tenant, label, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		t.Tenant, t.Label, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading template id: %w", err)
	}

	if err := insertAttrs(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing template create: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	t.UpdatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		UPDATE templates SET label = ?, updated_at = ?
		WHERE id = ? AND tenant = ?`,
		t.Label, formatTime(t.UpdatedAt), t.ID, t.Tenant)
	if err != nil {
		return fmt.Errorf("updating template %d: %w", t.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrTemplateNotFound
	}

	// Replace semantics: the old attribute set is discarded wholesale.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_attrs WHERE template_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing attributes for template %d: %w", t.ID, err)
	}
	if err := insertAttrs(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing template update: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, tenant string, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Explicit attribute delete; the FK cascade is a backstop.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_attrs WHERE template_id = ?
		 AND EXISTS (SELECT 1 FROM templates WHERE id = ? AND tenant = ?)`,
		id, id, tenant); err != nil {
		return fmt.Errorf("deleting attributes for template %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM templates WHERE id = ? AND tenant = ?`, id, tenant)
	if err != nil {
		return fmt.Errorf("deleting template %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrTemplateNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing template delete: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context, tenant string) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM templates WHERE tenant = ? ORDER BY id`, tenant)
	if err != nil {
		return nil, fmt.Errorf("listing templates for delete: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning template id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating template ids: %w", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM template_attrs WHERE template_id IN
		(SELECT id FROM templates WHERE tenant = ?)`, tenant); err != nil {
		return nil, fmt.Errorf("deleting tenant attributes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM templates WHERE tenant = ?`, tenant); err != nil {
		return nil, fmt.Errorf("deleting tenant templates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bulk delete: %w", err)
	}
	return ids, nil
}

func insertAttrs(ctx context.Context, tx *sql.Tx, t *Template) error {
	for i := range t.Attrs {
		a := &t.Attrs[i]
		a.TemplateID = t.ID

		var static sql.NullString
		if a.StaticValue != nil {
			static = sql.NullString{String: *a.StaticValue, Valid: true}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO template_attrs (template_id, label, type, value_type, static_value)
			VALUES (?, ?, ?, ?, ?)`,
			t.ID, a.Label, a.Type, a.ValueType, static)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateAttrLabel, a.Label)
			}
			return fmt.Errorf("inserting attribute %q: %w", a.Label, err)
		}
		a.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading attribute id: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) loadAttrs(ctx context.Context, t *Template) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_id, label, type, value_type, static_value
		FROM template_attrs WHERE template_id = ? ORDER BY id`, t.ID)
	if err != nil {
		return fmt.Errorf("querying attributes for template %d: %w", t.ID, err)
	}
	defer rows.Close()

	attrs := make([]Attribute, 0)
	for rows.Next() {
		var a Attribute
		var static sql.NullString
		if err := rows.Scan(&a.ID, &a.TemplateID, &a.Label, &a.Type, &a.ValueType, &static); err != nil {
			return fmt.Errorf("scanning attribute: %w", err)
		}
		if static.Valid {
			a.StaticValue = &static.String
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating attributes: %w", err)
	}

	t.Attrs = attrs
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*Template, error) {
	var t Template
	var createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.Tenant, &t.Label, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
