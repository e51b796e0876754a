// Package driverrepo persists the driver aggregate, including the soft
// last-known-location cell that is overwritten rather than versioned.
package driverrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverDTO is the relational shape of the driver aggregate. The code is
// unique within the warehouse. The last known location lives in three
// nullable columns, all nil until the driver first reports a position.
type DriverDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;index"`
	Code        string    `gorm:"uniqueIndex:idx_drivers_warehouse_code"`
	Name        string
	WarehouseID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_drivers_warehouse_code"`

	Availability   string
	LastLat        *float64
	LastLng        *float64
	LastRecordedAt *time.Time
}

// TableName overrides GORM's default naming to use "drivers".
func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(aggregate *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:           aggregate.ID().Bytes(),
		UserID:       aggregate.UserID().Bytes(),
		Code:         aggregate.Code(),
		Name:         aggregate.Name(),
		WarehouseID:  aggregate.WarehouseID().Bytes(),
		Availability: string(aggregate.Availability()),
	}

	if loc := aggregate.LastKnownLocation(); loc != nil {
		lat := loc.Lat()
		lng := loc.Lng()
		recordedAt := loc.RecordedAt()
		dto.LastLat = &lat
		dto.LastLng = &lng
		dto.LastRecordedAt = &recordedAt
	}

	return dto
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}

	var lastKnown *kernel.Location
	if dto.LastLat != nil && dto.LastLng != nil && dto.LastRecordedAt != nil {
		loc, locErr := kernel.NewLocation(*dto.LastLat, *dto.LastLng, *dto.LastRecordedAt)
		if locErr != nil {
			return nil, locErr
		}
		lastKnown = &loc
	}

	return driver.RestoreDriver(
		id,
		userID,
		dto.Code,
		dto.Name,
		warehouseID,
		driver.Availability(dto.Availability),
		lastKnown,
	)
}
