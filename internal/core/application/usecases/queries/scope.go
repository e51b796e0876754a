package queries

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/auth"
)

// scopeOrders narrows an orders query to the rows the principal may see.
// Drivers only see their own assignments; everyone else is limited to
// their warehouse grants unless unrestricted.
func scopeOrders(tx *gorm.DB, principal auth.Principal) *gorm.DB {
	if principal.Role() == auth.RoleDriver && principal.DriverID() != nil {
		tx = tx.Where("driver_id = ?", principal.DriverID().Bytes())
	}
	if principal.IsUnrestricted() {
		return tx
	}

	return tx.Where("warehouse_id IN ?", warehouseValues(principal))
}

func scopeDrivers(tx *gorm.DB, principal auth.Principal) *gorm.DB {
	if principal.IsUnrestricted() {
		return tx
	}

	return tx.Where("warehouse_id IN ?", warehouseValues(principal))
}

func warehouseValues(principal auth.Principal) []uuid.UUID {
	ids := principal.AllowedWarehouseIDs()
	values := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.Bytes())
	}

	return values
}
