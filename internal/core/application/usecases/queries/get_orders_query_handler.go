package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) (GetOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersResponse{}, err
	}

	tx := h.db.WithContext(ctx).Table("orders")
	tx = scopeOrders(tx, query.Principal())

	if query.Status() != nil {
		tx = tx.Where("status = ?", query.Status().String())
	}
	if query.DriverID() != nil {
		tx = tx.Where("driver_id = ?", query.DriverID().Bytes())
	}
	if query.WarehouseID() != nil {
		tx = tx.Where("warehouse_id = ?", query.WarehouseID().Bytes())
	}
	if !query.IncludeArchived() {
		tx = tx.Where("is_archived = ?", false)
	}

	var rows []orderRow
	err := tx.Order("created_at desc, id desc").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&rows).Error
	if err != nil {
		return GetOrdersResponse{}, err
	}

	orders := make([]OrderResponse, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toResponse())
	}

	return GetOrdersResponse{Orders: orders}, nil
}
