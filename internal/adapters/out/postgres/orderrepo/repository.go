package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// Update is a conditional write: the UPDATE carries the version the aggregate
// was loaded with, and zero affected rows means another writer got there
// first. The caller sees that as a ConflictError, never a silent overwrite.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker records aggregates touched within the unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its history. A duplicate sales order number
// surfaces as a ConflictError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("salesOrderNumber", aggregate.SalesOrderNumber(), err)
		}
		return err
	}

	if err := r.insertHistory(ctx, aggregate, 0); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the aggregate back conditionally on the version it was loaded
// with and appends any new history entries in the same transaction. A lost
// race returns a ConflictError with the row untouched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order version", aggregate.ID().String())
	}

	var persisted int64
	err := r.db.WithContext(ctx).Model(&HistoryDTO{}).
		Where("order_id = ?", dto.ID).
		Count(&persisted).Error
	if err != nil {
		return err
	}

	if err = r.insertHistory(ctx, aggregate, int(persisted)); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// insertHistory appends history entries beyond the first `persisted` ones.
// History is append-only and ordered, so the persisted prefix never changes.
func (r *GormOrderRepository) insertHistory(ctx context.Context, aggregate *order.Order, persisted int) error {
	history := aggregate.History()
	if persisted >= len(history) {
		return nil
	}

	dtos := make([]HistoryDTO, 0, len(history)-persisted)
	for _, entry := range history[persisted:] {
		dtos = append(dtos, historyFromDomain(entry))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Get retrieves an order with its complete status history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetBySalesOrderNumber retrieves an order by its business number.
func (r *GormOrderRepository) GetBySalesOrderNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("salesOrderNumber")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "sales_order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("salesOrderNumber", number)
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetArchivable retrieves unarchived orders in a terminal status whose last
// transition happened before cutoff.
func (r *GormOrderRepository) GetArchivable(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	terminal := []string{
		order.Delivered.String(),
		order.Rejected.String(),
		order.Cancelled.String(),
		order.Returned.String(),
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("is_archived = ? AND status IN ?", false, terminal).
		Where("id IN (?)", r.db.Model(&HistoryDTO{}).
			Select("order_id").
			Group("order_id").
			Having("MAX(timestamp) < ?", cutoff.UTC())).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, loadErr := r.load(ctx, dto)
		if loadErr != nil {
			return nil, loadErr
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

func (r *GormOrderRepository) load(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	var historyDTOs []HistoryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Order("timestamp asc, id asc").
		Find(&historyDTOs).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, historyDTOs)
}
