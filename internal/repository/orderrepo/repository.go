package orderrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

const backend = "postgres"

// OrderRepository persiste pedidos (orders) e suas linhas (order_items).
type OrderRepository struct {
	DB        *sqlx.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewOrderRepository(db *sqlx.DB, dbTimeout time.Duration, log logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

type orderRow struct {
	ID            string          `db:"id"`
	OwnerID       sql.NullString  `db:"owner_id"`
	Status        string          `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	Customer      []byte          `db:"customer"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Shipping      decimal.Decimal `db:"shipping"`
	Total         decimal.Decimal `db:"total"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type itemRow struct {
	OrderID   string          `db:"order_id"`
	Position  int             `db:"position"`
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Image     string          `db:"image"`
	Size      string          `db:"size"`
	Price     decimal.Decimal `db:"price"`
	Quantity  int             `db:"quantity"`
	LineTotal decimal.Decimal `db:"line_total"`
}

const (
	selectOrders = `
		SELECT id, owner_id, status, payment_method, customer, subtotal, shipping, total, created_at, updated_at
		FROM orders`
	selectItems = `
		SELECT order_id, position, product_id, name, image, size, price, quantity, line_total
		FROM order_items`
)

// Save insere o pedido e suas linhas em uma única transação.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) (err error) {
	r.logger.Debug("Iniciando Save de pedido no repositório.", map[string]interface{}{"order_id": order.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return apperror.NewPersistenceError("orders", backend, err)
	}

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewPersistenceError("orders", backend, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	row := orderRow{
		ID:            order.ID,
		OwnerID:       sql.NullString{String: order.OwnerID, Valid: order.OwnerID != ""},
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		Customer:      customer,
		Subtotal:      order.Subtotal,
		Shipping:      order.Shipping,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	const orderSQL = `
		INSERT INTO orders (id, owner_id, status, payment_method, customer, subtotal, shipping, total, created_at, updated_at)
		VALUES (:id, :owner_id, :status, :payment_method, :customer, :subtotal, :shipping, :total, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctxTimeout, orderSQL, row); err != nil {
		r.logger.Error("Falha ao inserir pedido no DB.", err)
		return apperror.NewPersistenceError("orders", backend, err)
	}

	const itemSQL = `
		INSERT INTO order_items (order_id, position, product_id, name, image, size, price, quantity, line_total)
		VALUES (:order_id, :position, :product_id, :name, :image, :size, :price, :quantity, :line_total)`
	for i, it := range order.Items {
		item := itemRow{
			OrderID:   order.ID,
			Position:  i,
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Size:      it.Size,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
		if _, err = tx.NamedExecContext(ctxTimeout, itemSQL, item); err != nil {
			r.logger.Error("Falha ao inserir linha do pedido no DB.", err)
			return apperror.NewPersistenceError("orders", backend, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewPersistenceError("orders", backend, err)
	}

	r.logger.Info("Pedido salvo com sucesso no repositório.", map[string]interface{}{"order_id": order.ID})
	return nil
}

// FindAll retorna todos os pedidos, mais recentes primeiro.
func (r *OrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var rows []orderRow
	if err := r.DB.SelectContext(ctxTimeout, &rows, selectOrders+` ORDER BY created_at DESC`); err != nil {
		r.logger.Error("Falha ao listar pedidos no DB.", err)
		return nil, apperror.NewPersistenceError("orders", backend, err)
	}

	var items []itemRow
	if err := r.DB.SelectContext(ctxTimeout, &items, selectItems+` ORDER BY order_id, position`); err != nil {
		r.logger.Error("Falha ao listar linhas de pedidos no DB.", err)
		return nil, apperror.NewPersistenceError("orders", backend, err)
	}

	byOrder := make(map[string][]itemRow, len(rows))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := toDomain(row, byOrder[row.ID])
		if err != nil {
			return nil, apperror.NewPersistenceError("orders", backend, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// FindByID busca um pedido e suas linhas.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var row orderRow
	err := r.DB.GetContext(ctxTimeout, &row, selectOrders+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não foi encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pedido no DB.", err)
		return domain.Order{}, apperror.NewPersistenceError("orders", backend, err)
	}

	var items []itemRow
	if err := r.DB.SelectContext(ctxTimeout, &items, selectItems+` WHERE order_id = $1 ORDER BY position`, id); err != nil {
		return domain.Order{}, apperror.NewPersistenceError("orders", backend, err)
	}

	o, err := toDomain(row, items)
	if err != nil {
		return domain.Order{}, apperror.NewPersistenceError("orders", backend, err)
	}
	return o, nil
}

// UpdateStatus altera apenas status e updated_at.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, string(status), updatedAt, id)
	if err != nil {
		r.logger.Error("Falha ao atualizar status do pedido no DB.", err)
		return apperror.NewPersistenceError("orders", backend, err)
	}
	return notFoundIfNoRows(res, id)
}

// Delete remove o pedido; as linhas são removidas em cascata.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover pedido no DB.", err)
		return apperror.NewPersistenceError("orders", backend, err)
	}
	return notFoundIfNoRows(res, id)
}

func notFoundIfNoRows(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewPersistenceError("orders", backend, err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não foi encontrado.", id))
	}
	return nil
}

func toDomain(row orderRow, items []itemRow) (domain.Order, error) {
	o := domain.Order{
		ID:            row.ID,
		OwnerID:       row.OwnerID.String,
		Status:        domain.OrderStatus(row.Status),
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		Subtotal:      row.Subtotal,
		Shipping:      row.Shipping,
		Total:         row.Total,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Items:         make([]domain.OrderItem, 0, len(items)),
	}
	if err := json.Unmarshal(row.Customer, &o.Customer); err != nil {
		return domain.Order{}, err
	}
	for _, it := range items {
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Size:      it.Size,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}
	return o, nil
}
