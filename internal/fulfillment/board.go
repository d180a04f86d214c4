package fulfillment

import (
	"math"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
)

// AllPacked reports whether every line item of the order carries the packed
// flag. An order with no items is vacuously packed.
func AllPacked(order *domain.Order) bool {
	for _, item := range order.Items {
		if !item.Packed {
			return false
		}
	}
	return true
}

// ProgressPercent is the rounded percentage of packed line items. An order
// with no items reports 100 so the completion gate does not divide by zero.
func ProgressPercent(order *domain.Order) int {
	if len(order.Items) == 0 {
		return 100
	}

	packed := 0
	for _, item := range order.Items {
		if item.Packed {
			packed++
		}
	}

	return int(math.Round(100 * float64(packed) / float64(len(order.Items))))
}
