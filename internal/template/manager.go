package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Logger is the minimal logging interface the manager needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Manager orchestrates template lifecycle operations: validation,
// persistence, and change event emission. The database commit strictly
// precedes event emission; a failed commit never emits.
type Manager struct {
	repo     Repository
	notifier Notifier
	logger   Logger
}

// NewManager creates a Manager. A nil notifier or logger is replaced
// with a no-op implementation.
func NewManager(repo Repository, notifier Notifier, logger Logger) *Manager {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{repo: repo, notifier: notifier, logger: logger}
}

// ListCriteria bundles the filtering, paging, and formatting options
// for a template listing.
type ListCriteria struct {
	Filter Filter
	Page   Page
	Format AttrFormat
}

// ListResult is a page of formatted templates with its metadata.
type ListResult struct {
	Templates  []View     `json:"templates"`
	Pagination Pagination `json:"pagination"`
}

// List returns the matching page of templates. Invalid page parameters
// and storage failures degrade to an empty page; only malformed filter
// criteria are reported as errors.
func (m *Manager) List(ctx context.Context, tenant string, c ListCriteria) (*ListResult, error) {
	result := &ListResult{
		Templates:  []View{},
		Pagination: Pagination{Page: c.Page.Number, PerPage: c.Page.Size},
	}

	if !c.Page.Valid() {
		m.logger.Debug("template list degraded to empty page",
			"tenant", tenant, "page", c.Page.Number, "per_page", c.Page.Size)
		return result, nil
	}

	// The count query is skipped when the caller orders the results
	// themselves; default ordering carries the total.
	withTotal := c.Filter.SortBy == ""

	templates, total, err := m.repo.List(ctx, tenant, c.Filter, c.Page, withTotal)
	if err != nil {
		if IsValidation(err) {
			return nil, err
		}
		m.logger.Error("template list failed, returning empty page",
			"tenant", tenant, "error", err)
		return result, nil
	}

	for i := range templates {
		result.Templates = append(result.Templates, Format(c.Format, &templates[i]))
	}
	if withTotal {
		result.Pagination.Total = &total
	}

	return result, nil
}

// Get returns the formatted view of one template, or
// ErrTemplateNotFound.
func (m *Manager) Get(ctx context.Context, tenant string, id int64, format AttrFormat) (*View, error) {
	t, err := m.repo.GetByID(ctx, tenant, id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("loading template %d: %w", id, err)
	}
	v := Format(format, t)
	return &v, nil
}

// AttributeInput is one attribute in a create or update payload.
type AttributeInput struct {
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	ValueType   string  `json:"value_type"`
	StaticValue *string `json:"static_value,omitempty"`
}

// TemplateInput is the decoded create/update payload.
type TemplateInput struct {
	Label string           `json:"label"`
	Attrs []AttributeInput `json:"attrs"`
}

// DecodeTemplateInput parses a JSON payload into a TemplateInput.
// Malformed JSON is a validation failure.
func DecodeTemplateInput(data []byte) (*TemplateInput, error) {
	var in TemplateInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &in, nil
}

func (in *TemplateInput) toTemplate(tenant string) *Template {
	t := &Template{
		Tenant: tenant,
		Label:  in.Label,
		Attrs:  make([]Attribute, 0, len(in.Attrs)),
	}
	for _, a := range in.Attrs {
		t.Attrs = append(t.Attrs, Attribute{
			Label:       a.Label,
			Type:        AttrType(a.Type),
			ValueType:   ValueType(a.ValueType),
			StaticValue: a.StaticValue,
		})
	}
	return t
}

// Create validates and persists a new template atomically, emits a
// create event after the commit, and returns the formatted view.
func (m *Manager) Create(ctx context.Context, tenant string, in *TemplateInput, format AttrFormat) (*View, error) {
	t := in.toTemplate(tenant)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := m.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}

	m.logger.Info("template created", "tenant", tenant, "id", t.ID, "label", t.Label)
	m.emit(ctx, tenant, EventCreate, t.ID)

	v := Format(format, t)
	return &v, nil
}

// Update replaces a template's label and full attribute set atomically
// and emits an update event after the commit. The template must exist.
func (m *Manager) Update(ctx context.Context, tenant string, id int64, in *TemplateInput) error {
	t := in.toTemplate(tenant)
	t.ID = id
	if err := t.Validate(); err != nil {
		return err
	}

	if err := m.repo.Update(ctx, t); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("updating template %d: %w", id, err)
	}

	m.logger.Info("template updated", "tenant", tenant, "id", id, "label", t.Label)
	m.emit(ctx, tenant, EventUpdate, id)
	return nil
}

// Remove deletes a template and all its attributes atomically and
// emits a remove event after the commit. The template must exist.
func (m *Manager) Remove(ctx context.Context, tenant string, id int64) error {
	if err := m.repo.Delete(ctx, tenant, id); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("removing template %d: %w", id, err)
	}

	m.logger.Info("template removed", "tenant", tenant, "id", id)
	m.emit(ctx, tenant, EventRemove, id)
	return nil
}

// RemoveAll deletes every template of the tenant atomically and emits
// one remove event per deleted template, keeping per-template event
// streams consistent with single deletes.
func (m *Manager) RemoveAll(ctx context.Context, tenant string) error {
	ids, err := m.repo.DeleteAll(ctx, tenant)
	if err != nil {
		return fmt.Errorf("removing all templates: %w", err)
	}

	m.logger.Info("all templates removed", "tenant", tenant, "count", len(ids))
	for _, id := range ids {
		m.emit(ctx, tenant, EventRemove, id)
	}
	return nil
}

// emit publishes a lifecycle event. Publish failures are logged as
// degraded success and never surfaced: the write is already committed.
func (m *Manager) emit(ctx context.Context, tenant string, event EventType, id int64) {
	e := Event{
		Event:      event,
		TemplateID: id,
		Tenant:     tenant,
		Timestamp:  time.Now().UTC(),
	}
	if err := m.notifier.Notify(ctx, e); err != nil {
		m.logger.Warn("template event publish failed",
			"tenant", tenant, "event", event, "id", id, "error", err)
	}
}
