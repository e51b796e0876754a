package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

type GetOrderQueryHandler struct {
	db    *gorm.DB
	guard services.AccessGuard
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, guard: services.NewAccessGuard()}
}

type orderRow struct {
	ID               uuid.UUID
	SalesOrderNumber string
	Status           string
	WarehouseID      uuid.UUID
	DriverID         *uuid.UUID
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  string
	CustomerArea     string
	PaymentMethod    string
	TotalAmount      float64
	Notes            string
	SalesTaker       string
	IsArchived       bool
	CreatedAt        time.Time
	AssignedAt       *time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	ProofKind        *string
	ProofRef         *string
	ProofCapturedAt  *time.Time
	Version          int
}

func (r orderRow) toResponse() OrderResponse {
	resp := OrderResponse{
		ID:               r.ID,
		SalesOrderNumber: r.SalesOrderNumber,
		Status:           r.Status,
		WarehouseID:      r.WarehouseID,
		DriverID:         r.DriverID,
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerAddress:  r.CustomerAddress,
		CustomerArea:     r.CustomerArea,
		PaymentMethod:    r.PaymentMethod,
		TotalAmount:      r.TotalAmount,
		Notes:            r.Notes,
		SalesTaker:       r.SalesTaker,
		IsArchived:       r.IsArchived,
		CreatedAt:        r.CreatedAt,
		AssignedAt:       r.AssignedAt,
		PickedUpAt:       r.PickedUpAt,
		DeliveredAt:      r.DeliveredAt,
		Version:          r.Version,
	}
	if r.ProofKind != nil && r.ProofRef != nil && r.ProofCapturedAt != nil {
		resp.Proof = &ProofResponse{Kind: *r.ProofKind, Ref: *r.ProofRef, CapturedAt: *r.ProofCapturedAt}
	}

	return resp
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderResponse{}, err
	}

	// The row loads unscoped so an out-of-scope read surfaces as an
	// authorization failure, the same way every mutating path does, instead
	// of masquerading as a missing order.
	var row orderRow
	err := h.db.WithContext(ctx).Table("orders").
		Where("id = ?", query.OrderID().Bytes()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID().String())
		}

		return GetOrderResponse{}, err
	}

	warehouseID, err := kernel.UUIDFromBytes(row.WarehouseID[:])
	if err != nil {
		return GetOrderResponse{}, err
	}
	if err = h.guard.Authorize(query.Principal(), warehouseID); err != nil {
		return GetOrderResponse{}, err
	}

	// A driver reads only its own assignments.
	if principal := query.Principal(); principal.Role() == auth.RoleDriver {
		own := principal.DriverID()
		if own == nil || row.DriverID == nil || *row.DriverID != own.Bytes() {
			return GetOrderResponse{}, errs.NewAuthorizationError("order", query.OrderID().String())
		}
	}

	var historyRows []struct {
		Status    string
		ChangedBy uuid.UUID
		Timestamp time.Time
		Notes     string
	}
	err = h.db.WithContext(ctx).Table("order_status_history").
		Where("order_id = ?", query.OrderID().Bytes()).
		Order("timestamp asc, id asc").
		Find(&historyRows).Error
	if err != nil {
		return GetOrderResponse{}, err
	}

	history := make([]HistoryEntryResponse, 0, len(historyRows))
	for _, hr := range historyRows {
		history = append(history, HistoryEntryResponse{
			Status:    hr.Status,
			ChangedBy: hr.ChangedBy,
			Timestamp: hr.Timestamp,
			Notes:     hr.Notes,
		})
	}

	return GetOrderResponse{Order: row.toResponse(), History: history}, nil
}
