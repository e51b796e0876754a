package http

import (
	"time"

	"dispatch/internal/core/domain/model/order"
)

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	SalesOrderNumber string  `json:"sales_order_number"`
	WarehouseID      string  `json:"warehouse_id"`
	CustomerName     string  `json:"customer_name"`
	CustomerPhone    string  `json:"customer_phone"`
	CustomerAddress  string  `json:"customer_address"`
	CustomerArea     string  `json:"customer_area"`
	PaymentMethod    string  `json:"payment_method"`
	TotalAmount      float64 `json:"total_amount"`
	Notes            string  `json:"notes"`
	SalesTaker       string  `json:"sales_taker"`
}

// CreateDriverRequest is the body of POST /api/v1/drivers.
type CreateDriverRequest struct {
	UserID      string `json:"user_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	WarehouseID string `json:"warehouse_id"`
}

// AssignRequest is the body of POST /api/v1/orders/:id/assign.
type AssignRequest struct {
	DriverID string `json:"driver_id"`
}

// BatchAssignRequest is the body of POST /api/v1/orders/batch-assign.
type BatchAssignRequest struct {
	OrderIDs []string `json:"order_ids"`
	DriverID string   `json:"driver_id"`
}

// ReassignRequest is the body of POST /api/v1/orders/:id/reassign.
type ReassignRequest struct {
	DriverID string `json:"driver_id"`
	Reason   string `json:"reason"`
}

// ProofRequest is the proof-of-delivery fragment of status changes.
type ProofRequest struct {
	Type       string    `json:"type"`
	Ref        string    `json:"ref"`
	CapturedAt time.Time `json:"captured_at"`
}

// ChangeStatusRequest is the body of PATCH /api/v1/orders/:id/status.
type ChangeStatusRequest struct {
	Status string        `json:"status"`
	Notes  string        `json:"notes"`
	Proof  *ProofRequest `json:"proof"`
}

// SyncUpdateRequest is one queued offline mutation in a sync batch.
type SyncUpdateRequest struct {
	OrderID         string        `json:"order_id"`
	Status          string        `json:"status"`
	ClientTimestamp time.Time     `json:"client_timestamp"`
	IdempotencyKey  string        `json:"idempotency_key"`
	Notes           string        `json:"notes"`
	Proof           *ProofRequest `json:"proof"`
}

// SyncRequest is the body of POST /api/v1/sync/status-updates.
type SyncRequest struct {
	DriverID string              `json:"driver_id"`
	Updates  []SyncUpdateRequest `json:"updates"`
}

// OperationResult is the per-order outcome in batch and sync responses.
type OperationResult struct {
	OrderID string `json:"order_id"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultsResponse wraps per-order outcomes.
type ResultsResponse struct {
	Results []OperationResult `json:"results"`
}

// toProof converts the optional proof fragment, defaulting capture time to
// now when the client omits it.
func (p *ProofRequest) toProof() (*order.ProofOfDelivery, error) {
	if p == nil {
		return nil, nil
	}
	capturedAt := p.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	proof, err := order.NewProofOfDelivery(order.ProofKind(p.Type), p.Ref, capturedAt)
	if err != nil {
		return nil, err
	}
	return &proof, nil
}
