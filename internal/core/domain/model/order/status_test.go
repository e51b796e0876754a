package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/order"
)

func TestStatusFromString(t *testing.T) {
	t.Run("should parse all wire values", func(t *testing.T) {
		cases := map[string]order.Status{
			"pending":    order.Unassigned,
			"assigned":   order.Assigned,
			"received":   order.Received,
			"picked_up":  order.PickedUp,
			"in_transit": order.InTransit,
			"delivered":  order.Delivered,
			"rejected":   order.Rejected,
			"cancelled":  order.Cancelled,
			"returned":   order.Returned,
		}

		for wire, expected := range cases {
			status, err := order.StatusFromString(wire)
			require.NoError(t, err, wire)
			assert.Equal(t, expected, status)
		}
	})

	t.Run("should accept out_for_delivery alias for in_transit", func(t *testing.T) {
		status, err := order.StatusFromString("out_for_delivery")

		require.NoError(t, err)
		assert.Equal(t, order.InTransit, status)
	})

	t.Run("should reject unknown values", func(t *testing.T) {
		for _, raw := range []string{"", "unknown", "shipped", "PENDING"} {
			_, err := order.StatusFromString(raw)
			require.Error(t, err, raw)
		}
	})
}

func TestStatusTransitionTable(t *testing.T) {
	all := []order.Status{
		order.Unassigned, order.Assigned, order.Received, order.PickedUp,
		order.InTransit, order.Delivered, order.Rejected, order.Cancelled,
		order.Returned,
	}

	allowed := map[order.Status][]order.Status{
		order.Unassigned: {order.Assigned, order.Cancelled},
		order.Assigned:   {order.Received, order.Rejected, order.Cancelled, order.Unassigned},
		order.Received:   {order.PickedUp, order.Rejected, order.Cancelled},
		order.PickedUp:   {order.InTransit, order.Cancelled},
		order.InTransit:  {order.Delivered, order.Rejected, order.Cancelled},
		order.Delivered:  {order.Returned},
		order.Rejected:   {},
		order.Cancelled:  {},
		order.Returned:   {},
	}

	isAllowed := func(from, to order.Status) bool {
		for _, target := range allowed[from] {
			if target == to {
				return true
			}
		}
		return false
	}

	t.Run("should permit exactly the table transitions", func(t *testing.T) {
		for _, from := range all {
			for _, to := range all {
				err := from.CanTransitionTo(to)
				if isAllowed(from, to) {
					assert.NoError(t, err, "%s -> %s", from, to)
				} else {
					assert.Error(t, err, "%s -> %s", from, to)
				}
			}
		}
	})

	t.Run("should reject any transition to an invalid status", func(t *testing.T) {
		require.Error(t, order.Unassigned.CanTransitionTo(order.Unknown))
		require.Error(t, order.Unassigned.CanTransitionTo(order.Status(99)))
	})

	t.Run("should expose next statuses as a copy", func(t *testing.T) {
		next := order.Unassigned.NextStatuses()
		require.Len(t, next, 2)
		next[0] = order.Delivered

		assert.Equal(t, []order.Status{order.Assigned, order.Cancelled}, order.Unassigned.NextStatuses())
	})

	t.Run("should report no next statuses for rejected cancelled returned", func(t *testing.T) {
		assert.Nil(t, order.Rejected.NextStatuses())
		assert.Nil(t, order.Cancelled.NextStatuses())
		assert.Nil(t, order.Returned.NextStatuses())
	})
}

func TestStatusProperties(t *testing.T) {
	t.Run("should mark terminal statuses", func(t *testing.T) {
		assert.True(t, order.Delivered.IsTerminal())
		assert.True(t, order.Rejected.IsTerminal())
		assert.True(t, order.Cancelled.IsTerminal())
		assert.True(t, order.Returned.IsTerminal())

		assert.False(t, order.Unassigned.IsTerminal())
		assert.False(t, order.Assigned.IsTerminal())
		assert.False(t, order.Received.IsTerminal())
		assert.False(t, order.PickedUp.IsTerminal())
		assert.False(t, order.InTransit.IsTerminal())
	})

	t.Run("should require reason for rejected cancelled returned", func(t *testing.T) {
		assert.True(t, order.Rejected.RequiresReason())
		assert.True(t, order.Cancelled.RequiresReason())
		assert.True(t, order.Returned.RequiresReason())

		assert.False(t, order.Delivered.RequiresReason())
		assert.False(t, order.Assigned.RequiresReason())
	})

	t.Run("should require proof only for delivered", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Unassigned, order.Assigned, order.Received, order.PickedUp,
			order.InTransit, order.Rejected, order.Cancelled, order.Returned,
		} {
			assert.False(t, s.RequiresProof(), s.String())
		}
		assert.True(t, order.Delivered.RequiresProof())
	})

	t.Run("should render pending for unassigned on the wire", func(t *testing.T) {
		assert.Equal(t, "pending", order.Unassigned.String())
		assert.Equal(t, "in_transit", order.InTransit.String())
		assert.Equal(t, "unknown", order.Unknown.String())
		assert.Equal(t, "unknown", order.Status(42).String())
	})

	t.Run("should fail validation for unknown and out of range", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(42).Validate())
		require.NoError(t, order.Delivered.Validate())
	})
}
