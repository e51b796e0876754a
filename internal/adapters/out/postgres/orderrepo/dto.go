// Package orderrepo persists the order aggregate and its append-only status
// history, mapping between domain entities and their relational shape.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO is the relational shape of the order aggregate. Status and payment
// method are stored as their wire strings so rows stay readable. The version
// column backs the optimistic-concurrency check in Update.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SalesOrderNumber string     `gorm:"uniqueIndex"`
	WarehouseID      uuid.UUID  `gorm:"type:uuid;index"`
	DriverID         *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"index"`

	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerArea    string

	PaymentMethod string
	TotalAmount   float64
	Notes         string
	SalesTaker    string

	IsArchived  bool `gorm:"index"`
	CreatedAt   time.Time
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time

	ProofKind       *string
	ProofRef        *string
	ProofCapturedAt *time.Time

	Version int
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// HistoryDTO is one row of the append-only status history log. Rows are only
// ever inserted. The idempotency key is indexed so offline resubmits can be
// recognized without scanning.
type HistoryDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Status         string
	ChangedBy      uuid.UUID `gorm:"type:uuid"`
	Timestamp      time.Time
	Notes          string
	IdempotencyKey string `gorm:"index"`
}

// TableName overrides GORM's default naming to use "order_status_history".
func (HistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	dto := OrderDTO{
		ID:               aggregate.ID().Bytes(),
		SalesOrderNumber: aggregate.SalesOrderNumber(),
		WarehouseID:      aggregate.WarehouseID().Bytes(),
		DriverID:         driverID,
		Status:           aggregate.Status().String(),
		CustomerName:     aggregate.Customer().Name(),
		CustomerPhone:    aggregate.Customer().Phone(),
		CustomerAddress:  aggregate.Customer().Address(),
		CustomerArea:     aggregate.Customer().Area(),
		PaymentMethod:    string(aggregate.PaymentMethod()),
		TotalAmount:      aggregate.TotalAmount(),
		Notes:            aggregate.Notes(),
		SalesTaker:       aggregate.SalesTaker(),
		IsArchived:       aggregate.IsArchived(),
		CreatedAt:        aggregate.CreatedAt(),
		AssignedAt:       aggregate.AssignedAt(),
		PickedUpAt:       aggregate.PickedUpAt(),
		DeliveredAt:      aggregate.DeliveredAt(),
		Version:          aggregate.Version(),
	}

	if proof := aggregate.Proof(); proof != nil {
		kind := string(proof.Kind())
		ref := proof.Ref()
		capturedAt := proof.CapturedAt()
		dto.ProofKind = &kind
		dto.ProofRef = &ref
		dto.ProofCapturedAt = &capturedAt
	}

	return dto
}

func historyFromDomain(entry order.StatusHistoryEntry) HistoryDTO {
	return HistoryDTO{
		OrderID:        entry.OrderID().Bytes(),
		Status:         entry.Status().String(),
		ChangedBy:      entry.ChangedBy().Bytes(),
		Timestamp:      entry.Timestamp(),
		Notes:          entry.Notes(),
		IdempotencyKey: entry.IdempotencyKey(),
	}
}

func toDomain(dto OrderDTO, historyDTOs []HistoryDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(dto.CustomerName, dto.CustomerPhone, dto.CustomerAddress, dto.CustomerArea)
	if err != nil {
		return nil, err
	}

	var proof *order.ProofOfDelivery
	if dto.ProofKind != nil && dto.ProofRef != nil && dto.ProofCapturedAt != nil {
		p, proofErr := order.NewProofOfDelivery(order.ProofKind(*dto.ProofKind), *dto.ProofRef, *dto.ProofCapturedAt)
		if proofErr != nil {
			return nil, proofErr
		}
		proof = &p
	}

	history := make([]order.StatusHistoryEntry, 0, len(historyDTOs))
	for _, h := range historyDTOs {
		entry, historyErr := historyToDomain(h)
		if historyErr != nil {
			return nil, historyErr
		}
		history = append(history, entry)
	}

	return order.RestoreOrder(
		id,
		dto.SalesOrderNumber,
		warehouseID,
		driverID,
		status,
		customer,
		order.PaymentMethod(dto.PaymentMethod),
		dto.TotalAmount,
		dto.Notes,
		dto.SalesTaker,
		dto.IsArchived,
		dto.CreatedAt,
		dto.AssignedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
		proof,
		history,
		dto.Version,
	)
}

func historyToDomain(dto HistoryDTO) (order.StatusHistoryEntry, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.StatusHistoryEntry{}, err
	}

	changedBy, err := kernel.UUIDFromBytes(dto.ChangedBy[:])
	if err != nil {
		return order.StatusHistoryEntry{}, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return order.StatusHistoryEntry{}, err
	}

	return order.NewStatusHistoryEntry(orderID, status, changedBy, dto.Timestamp, dto.Notes, dto.IdempotencyKey)
}
