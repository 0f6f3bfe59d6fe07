// Package admin exposes a fixed set of models to administrators as
// read-only paginated listings.
package admin

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/pagination"
)

// Column is one listed field of an entity.
type Column struct {
	Field  string
	Label  string
	Format func(v interface{}) string
}

// Entity describes a model shown in the admin pages.
type Entity struct {
	Name    string
	Title   string
	Model   interface{}
	Columns []Column
	Order   string
}

// Row is one record rendered as display strings, aligned with Columns.
type Row []string

// Summary is an entity with its row count, shown on the admin index.
type Summary struct {
	Entity Entity
	Count  int64
}

// Listing is one page of an entity's rows.
type Listing struct {
	Entity Entity
	Page   pagination.PageResponse[Row]
}

// DefaultEntities returns the entities administrators can browse.
// Password hashes are never listed.
func DefaultEntities() []Entity {
	return []Entity{
		{
			Name:  "users",
			Title: "Users",
			Model: &models.User{},
			Columns: []Column{
				{Field: "username", Label: "Username"},
				{Field: "email", Label: "Email"},
				{Field: "is_active", Label: "Active", Format: formatBool},
				{Field: "is_admin", Label: "Admin", Format: formatBool},
				{Field: "last_login_at", Label: "Last login"},
				{Field: "created_at", Label: "Joined"},
			},
			Order: "created_at DESC",
		},
		{
			Name:  "expenses",
			Title: "Expenses",
			Model: &models.Expense{},
			Columns: []Column{
				{Field: "date", Label: "Date", Format: formatDate},
				{Field: "user_id", Label: "User"},
				{Field: "category", Label: "Category", Format: formatCategory},
				{Field: "amount", Label: "Amount", Format: formatAmount},
				{Field: "description", Label: "Description"},
			},
			Order: "date DESC",
		},
	}
}

// Registry lists registered entities from the database.
type Registry struct {
	db       *gorm.DB
	entities []Entity
	byName   map[string]Entity
}

// NewRegistry creates a registry over the given entities.
func NewRegistry(db *gorm.DB, entities ...Entity) *Registry {
	r := &Registry{db: db, byName: make(map[string]Entity, len(entities))}
	for _, e := range entities {
		if _, dup := r.byName[e.Name]; dup {
			panic(fmt.Sprintf("admin: entity %q registered twice", e.Name))
		}
		r.entities = append(r.entities, e)
		r.byName[e.Name] = e
	}
	return r
}

// Entities returns the registered entities in registration order.
func (r *Registry) Entities() []Entity {
	return r.entities
}

// Lookup finds an entity by name.
func (r *Registry) Lookup(name string) (Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Counts returns every entity with its number of rows.
func (r *Registry) Counts() ([]Summary, error) {
	summaries := make([]Summary, 0, len(r.entities))
	for _, e := range r.entities {
		var count int64
		if err := r.db.Model(e.Model).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		summaries = append(summaries, Summary{Entity: e, Count: count})
	}
	return summaries, nil
}

// List returns one page of an entity's rows. Unknown entities are not found.
func (r *Registry) List(name string, page pagination.PageRequest) (*Listing, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	page.Defaults()

	var total int64
	if err := r.db.Model(e.Model).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fields := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		fields = append(fields, c.Field)
	}

	var records []map[string]interface{}
	if err := r.db.Model(e.Model).
		Select(fields).
		Order(e.Order).
		Scopes(pagination.Paginate(page)).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(e.Columns))
		for i, c := range e.Columns {
			format := c.Format
			if format == nil {
				format = formatValue
			}
			row[i] = format(rec[c.Field])
		}
		rows = append(rows, row)
	}

	return &Listing{
		Entity: e,
		Page:   pagination.NewPageResponse(rows, page.Page, page.PageSize, total),
	}, nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format("2006-01-02 15:04")
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format("2006-01-02 15:04")
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func formatDate(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	s := formatValue(v)
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func formatBool(v interface{}) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case int64:
		return formatBool(val != 0)
	case nil:
		return "No"
	default:
		return formatBool(strings.EqualFold(formatValue(v), "true"))
	}
}

func formatAmount(v interface{}) string {
	switch val := v.(type) {
	case int64:
		return money.Format(val)
	case int:
		return money.Format(int64(val))
	case int32:
		return money.Format(int64(val))
	default:
		return formatValue(v)
	}
}

func formatCategory(v interface{}) string {
	return models.Category(formatValue(v)).Label()
}
