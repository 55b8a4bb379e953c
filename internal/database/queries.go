package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (number, table_label, headcount, subtotal, fee, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	InsertOrderLineSQL = `
		INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price, note, selections)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	GetOrderByNumberSQL = `
		SELECT id, number, table_label, headcount, subtotal, fee, total, status, created_at
		FROM orders WHERE number = $1`

	GetOrderLinesSQL = `
		SELECT id, order_id, menu_item_id, name, quantity, unit_price, note, selections
		FROM order_items WHERE order_id = $1
		ORDER BY id ASC`

	// The day comes from the caller's UTC clock rather than CURRENT_DATE
	// so a non-UTC database session cannot shift the counter around
	// midnight.
	CountOrdersOnDaySQL = `
		SELECT COUNT(*) FROM orders
		WHERE (created_at AT TIME ZONE 'UTC')::date = $1::date`
)

// Menu queries
const (
	GetMenuSQL = `
		SELECT id, name, description, price, category, options, available
		FROM menu_items
		WHERE available
		ORDER BY category, id`

	GetMenuItemIDsSQL = `
		SELECT id FROM menu_items WHERE id = ANY($1)`
)
