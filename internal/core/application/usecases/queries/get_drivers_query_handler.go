package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDriversQueryHandler struct {
	db *gorm.DB
}

func NewGetDriversQueryHandler(db *gorm.DB) GetDriversQueryHandler {
	return GetDriversQueryHandler{db: db}
}

func (h GetDriversQueryHandler) Handle(ctx context.Context, query GetDriversQuery) (GetDriversResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriversResponse{}, err
	}

	tx := h.db.WithContext(ctx).Table("drivers")
	tx = scopeDrivers(tx, query.Principal())

	if query.WarehouseID() != nil {
		tx = tx.Where("warehouse_id = ?", query.WarehouseID().Bytes())
	}
	if query.Availability() != "" {
		tx = tx.Where("availability = ?", query.Availability())
	}

	var rows []struct {
		ID             uuid.UUID
		UserID         uuid.UUID
		Code           string
		Name           string
		WarehouseID    uuid.UUID
		Availability   string
		LastLat        *float64
		LastLng        *float64
		LastRecordedAt *time.Time
	}
	if err := tx.Order("code asc").Find(&rows).Error; err != nil {
		return GetDriversResponse{}, err
	}

	drivers := make([]DriverResponse, 0, len(rows))
	for _, row := range rows {
		resp := DriverResponse{
			ID:           row.ID,
			UserID:       row.UserID,
			Code:         row.Code,
			Name:         row.Name,
			WarehouseID:  row.WarehouseID,
			Availability: row.Availability,
		}
		if row.LastLat != nil && row.LastLng != nil && row.LastRecordedAt != nil {
			resp.Location = &LocationResponse{
				Lat:        *row.LastLat,
				Lng:        *row.LastLng,
				RecordedAt: *row.LastRecordedAt,
			}
		}
		drivers = append(drivers, resp)
	}

	return GetDriversResponse{Drivers: drivers}, nil
}
