package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOrderAlreadyPaid      = errors.New("order is already paid")
	ErrOrderAlreadyDelivered = errors.New("order is already delivered")
)

const orderColumns = `id, user_id, payment_mode,
		shipping_full_name, shipping_address, shipping_city, shipping_postal_code, shipping_country,
		shipping_lat, shipping_lng, shipping_formatted_address, shipping_place_name, shipping_vicinity, shipping_place_id,
		items_price, shipping_price, tax_price, total_price,
		is_paid, paid_at, payment_external_id, payment_status, payment_payer_email,
		is_delivered, delivered_at, created_at, updated_at`

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create persists the order, its item snapshots and the matching stock
	// decrements in a single transaction. A line whose quantity exceeds the
	// live stock aborts the whole order with ErrInsufficientStock.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context, paidOnly bool) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, result *domain.PaymentResult) error
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*domain.SalesSummary, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row interface{ Scan(...any) error }, withOwner bool) (*domain.Order, error) {
	order := &domain.Order{}
	var (
		lat, lng                             sql.NullFloat64
		formattedAddr, placeName             sql.NullString
		vicinity, placeID                    sql.NullString
		paidAt, deliveredAt                  sql.NullTime
		payExternalID, payStatus, payerEmail sql.NullString
	)

	dest := []any{
		&order.ID, &order.UserID, &order.PaymentMode,
		&order.ShippingAddress.FullName, &order.ShippingAddress.Address, &order.ShippingAddress.City,
		&order.ShippingAddress.PostalCode, &order.ShippingAddress.Country,
		&lat, &lng, &formattedAddr, &placeName, &vicinity, &placeID,
		&order.ItemsPrice, &order.ShippingPrice, &order.TaxPrice, &order.TotalPrice,
		&order.IsPaid, &paidAt, &payExternalID, &payStatus, &payerEmail,
		&order.IsDelivered, &deliveredAt, &order.CreatedAt, &order.UpdatedAt,
	}
	if withOwner {
		dest = append(dest, &order.UserName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if lat.Valid || formattedAddr.Valid {
		order.ShippingAddress.Location = &domain.Location{
			Lat:              lat.Float64,
			Lng:              lng.Float64,
			FormattedAddress: formattedAddr.String,
			Name:             placeName.String,
			Vicinity:         vicinity.String,
			PlaceID:          placeID.String,
		}
	}
	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	if payExternalID.Valid || payStatus.Valid || payerEmail.Valid {
		order.PaymentResult = &domain.PaymentResult{
			ExternalID: payExternalID.String,
			Status:     payStatus.String,
			PayerEmail: payerEmail.String,
		}
	}

	return order, nil
}

// Create inserts the order and its line snapshots, decrementing stock
// atomically per line. All-or-nothing: any failure rolls everything back.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Conditional decrement: zero rows affected means the live stock no
	// longer covers the requested quantity (or the product is gone).
	for _, item := range order.Items {
		result, decErr := tx.ExecContext(ctx, `
			UPDATE products
			SET count_in_stock = count_in_stock - $2, updated_at = $3
			WHERE id = $1 AND count_in_stock >= $2
		`, item.ProductID, item.Quantity, order.CreatedAt)
		if decErr != nil {
			err = fmt.Errorf("failed to decrement stock: %w", decErr)
			return err
		}

		rowsAffected, raErr := result.RowsAffected()
		if raErr != nil {
			err = fmt.Errorf("failed to get rows affected: %w", raErr)
			return err
		}
		if rowsAffected == 0 {
			err = fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
			return err
		}
	}

	var loc domain.Location
	var hasLoc bool
	if order.ShippingAddress.Location != nil {
		loc = *order.ShippingAddress.Location
		hasLoc = true
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, payment_mode,
			shipping_full_name, shipping_address, shipping_city, shipping_postal_code, shipping_country,
			shipping_lat, shipping_lng, shipping_formatted_address, shipping_place_name, shipping_vicinity, shipping_place_id,
			items_price, shipping_price, tax_price, total_price,
			is_paid, is_delivered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, FALSE, FALSE, $19, $20)
	`,
		order.ID, order.UserID, order.PaymentMode,
		order.ShippingAddress.FullName, order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		nullFloat(loc.Lat, hasLoc), nullFloat(loc.Lng, hasLoc),
		nullString(loc.FormattedAddress, hasLoc), nullString(loc.Name, hasLoc),
		nullString(loc.Vicinity, hasLoc), nullString(loc.PlaceID, hasLoc),
		order.ItemsPrice, order.ShippingPrice, order.TaxPrice, order.TotalPrice,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		err = fmt.Errorf("failed to create order: %w", err)
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, slug, image, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, item.ID, item.OrderID, item.ProductID, item.Name, item.Slug, item.Image, item.Price, item.Quantity)
		if err != nil {
			err = fmt.Errorf("failed to create order item: %w", err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit order transaction: %w", err)
		return err
	}

	return nil
}

func nullFloat(v float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: valid}
}

func nullString(v string, valid bool) sql.NullString {
	return sql.NullString{String: v, Valid: valid}
}

// FindByID retrieves an order and its item snapshots
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id), false)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, slug, image, price, quantity
		FROM order_items
		WHERE order_id = $1
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Slug, &item.Image, &item.Price, &item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	order.Items = items
	return nil
}

// ListByUser retrieves all orders owned by userID, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// ListAll retrieves every order with the owner name populated, optionally
// restricted to paid orders.
func (r *orderRepository) ListAll(ctx context.Context, paidOnly bool) ([]*domain.Order, error) {
	filter := ""
	if paidOnly {
		filter = "WHERE o.is_paid = TRUE"
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.user_id, o.payment_mode,
			o.shipping_full_name, o.shipping_address, o.shipping_city, o.shipping_postal_code, o.shipping_country,
			o.shipping_lat, o.shipping_lng, o.shipping_formatted_address, o.shipping_place_name, o.shipping_vicinity, o.shipping_place_id,
			o.items_price, o.shipping_price, o.tax_price, o.total_price,
			o.is_paid, o.paid_at, o.payment_external_id, o.payment_status, o.payment_payer_email,
			o.is_delivered, o.delivered_at, o.created_at, o.updated_at,
			u.name
		FROM orders o
		JOIN users u ON u.id = o.user_id
		%s
		ORDER BY o.created_at DESC
	`, filter)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// MarkPaid performs the one-way unpaid -> paid transition and records the
// capture result. A second attempt fails with ErrOrderAlreadyPaid.
func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, result *domain.PaymentResult) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE, paid_at = NOW(),
		    payment_external_id = $2, payment_status = $3, payment_payer_email = $4,
		    updated_at = NOW()
		WHERE id = $1 AND is_paid = FALSE
	`, id, result.ExternalID, result.Status, result.PayerEmail)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.transitionConflict(ctx, id, ErrOrderAlreadyPaid)
	}

	return nil
}

// MarkDelivered performs the one-way undelivered -> delivered transition.
// A second attempt fails with ErrOrderAlreadyDelivered.
func (r *orderRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_delivered = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark order delivered: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.transitionConflict(ctx, id, ErrOrderAlreadyDelivered)
	}

	return nil
}

// transitionConflict distinguishes a missing order from one already in the
// target sub-state.
func (r *orderRepository) transitionConflict(ctx context.Context, id uuid.UUID, conflict error) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check order existence: %w", err)
	}
	if !exists {
		return ErrOrderNotFound
	}
	return conflict
}

// Summary aggregates counts, total sales and the per-day sales series.
func (r *orderRepository) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	summary := &domain.SalesSummary{SalesData: []domain.DailySales{}}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders)
	`).Scan(&summary.OrdersCount, &summary.ProductsCount, &summary.UsersCount, &summary.OrdersPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate summary counts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD') AS day, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders
		GROUP BY day
		ORDER BY day ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket domain.DailySales
		if err := rows.Scan(&bucket.Date, &bucket.Orders, &bucket.Sales); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		summary.SalesData = append(summary.SalesData, bucket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily sales: %w", err)
	}

	return summary, nil
}
