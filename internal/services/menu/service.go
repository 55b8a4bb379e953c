package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"tableside/internal/database"
	"tableside/internal/models"
)

// Store is the read-only persistence port for the menu catalog. Menu
// editing happens elsewhere; the ordering pipeline only reads.
type Store interface {
	ListItems(ctx context.Context) ([]models.MenuItem, error)
}

// Service serves the menu grouped by category in the fixed display order.
type Service struct {
	store Store
}

// NewService creates a new menu service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Category is one menu section. Sections are returned as a slice so the
// display order survives JSON encoding; a map would serialize its keys
// alphabetically.
type Category struct {
	Category string            `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

// Menu returns the available items grouped by category, following
// models.CategoryOrder. Categories the order does not know come last,
// alphabetically. Empty categories are omitted.
func (s *Service) Menu(ctx context.Context) ([]Category, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	grouped := make(map[string][]models.MenuItem, len(models.CategoryOrder))
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	sections := make([]Category, 0, len(grouped))
	for _, name := range models.CategoryOrder {
		if len(grouped[name]) == 0 {
			continue
		}
		sections = append(sections, Category{Category: name, Items: grouped[name]})
		delete(grouped, name)
	}

	var rest []string
	for name := range grouped {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		sections = append(sections, Category{Category: name, Items: grouped[name]})
	}

	return sections, nil
}

// PostgresStore implements Store on top of the shared connection pool.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a Postgres-backed menu store.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListItems returns every available menu item.
func (s *PostgresStore) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.GetMenuSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			item               models.MenuItem
			nameJSON, descJSON []byte
		)
		if err := rows.Scan(&item.ID, &nameJSON, &descJSON, &item.Price,
			&item.Category, &item.Options, &item.Available); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(nameJSON, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to decode name for item %d: %w", item.ID, err)
		}
		if err := json.Unmarshal(descJSON, &item.Description); err != nil {
			return nil, fmt.Errorf("failed to decode description for item %d: %w", item.ID, err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
