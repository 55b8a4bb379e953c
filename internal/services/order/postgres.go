package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tableside/internal/database"
	"tableside/internal/models"
)

// Store is the persistence port for orders. InsertOrder must be atomic:
// either the header and every line become visible together, or nothing does.
type Store interface {
	InsertOrder(ctx context.Context, req *models.CreateOrderRequest, number string) (int, time.Time, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	CountOrdersOnDay(ctx context.Context, day string) (int, error)
	MissingMenuItems(ctx context.Context, ids []int) ([]int, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store on top of the shared connection pool.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a Postgres-backed order store.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertOrder writes the order header and all its lines in one transaction.
func (s *PostgresStore) InsertOrder(ctx context.Context, req *models.CreateOrderRequest, number string) (int, time.Time, error) {
	var (
		orderID   int
		createdAt time.Time
	)

	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, database.InsertOrderSQL,
			number, req.TableLabel, req.Headcount, req.Subtotal, req.Fee, req.Total, string(models.StatusReceived),
		).Scan(&orderID, &createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert order header: %w", err)
		}

		for i, line := range req.Lines {
			selections, err := json.Marshal(line.Selections)
			if err != nil {
				return fmt.Errorf("failed to encode selections for line %d: %w", i, err)
			}
			_, err = tx.Exec(ctx, database.InsertOrderLineSQL,
				orderID, line.MenuItemID, line.Name, line.Quantity, line.UnitPrice, line.Note, selections)
			if err != nil {
				return fmt.Errorf("failed to insert order line %d: %w", i, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	return orderID, createdAt, nil
}

// GetOrderByNumber loads an order header with its lines.
func (s *PostgresStore) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRow(ctx, database.GetOrderByNumberSQL, number).Scan(
		&order.ID, &order.Number, &order.TableLabel, &order.Headcount,
		&order.Subtotal, &order.Fee, &order.Total, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, database.GetOrderLinesSQL, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line       models.OrderLine
			selections []byte
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &line.MenuItemID, &line.Name,
			&line.Quantity, &line.UnitPrice, &line.Note, &selections); err != nil {
			return nil, err
		}
		if len(selections) > 0 {
			if err := json.Unmarshal(selections, &line.Selections); err != nil {
				return nil, fmt.Errorf("failed to decode selections: %w", err)
			}
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// CountOrdersOnDay returns how many orders were created on the given UTC
// day ("2006-01-02"), used to recover the daily order-number counter
// after a restart.
func (s *PostgresStore) CountOrdersOnDay(ctx context.Context, day string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, database.CountOrdersOnDaySQL, day).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MissingMenuItems returns the subset of ids that do not exist on the menu.
func (s *PostgresStore) MissingMenuItems(ctx context.Context, ids []int) ([]int, error) {
	rows, err := s.db.Query(ctx, database.GetMenuItemIDsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int]bool, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Ping tests the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
