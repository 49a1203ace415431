package simulation

import (
	"time"

	"github.com/andresuchdata/autopo-sim/internal/domain"
)

// workingToCalendarFactor inflates a working-day lead time to calendar days
// when sizing an order: a six-working-day week means 7/6 ≈ 1.1667 calendar
// days per working day, rounded to 1.17.
const workingToCalendarFactor = 1.17

// infiniteDOI is the days-of-inventory sentinel for a SKU with no demand.
// Zero-demand SKUs are filtered out before simulation, so this only guards
// the division.
const infiniteDOI = 999

// SimulateSKU advances one SKU day by day across the horizon under a single
// policy setting and returns its daily records in horizon order.
//
// Each day runs a fixed sequence: receive any order due today, subtract the
// demand rate (stock is allowed to go negative), recompute DOI, then decide
// whether to reorder. A reorder fires only when DOI has fallen to the
// threshold and nothing is already in transit; the quantity tops stock up to
// the target DOI plus the demand expected to burn during the lead time, and
// is skipped entirely when that computes to zero or less.
//
// The in-transit queue is owned exclusively by this call, so concurrent
// simulations of different SKUs need no synchronization.
func SimulateSKU(sku domain.SKU, horizon []time.Time, key domain.ScenarioKey) []domain.DailyRecord {
	records := make([]domain.DailyRecord, 0, len(horizon))

	stock := sku.Stock
	var inTransit []domain.OutstandingOrder

	for _, date := range horizon {
		stockBeginning := stock

		// Receive orders due today. With the single-outstanding-order
		// invariant there is at most one, but sum defensively.
		stockReceived := 0.0
		remaining := inTransit[:0]
		for _, order := range inTransit {
			if order.ArrivalDate.Equal(date) {
				stockReceived += order.Quantity
			} else {
				remaining = append(remaining, order)
			}
		}
		inTransit = remaining
		stock += stockReceived

		sales := sku.QPD
		stock -= sales

		doi := float64(infiniteDOI)
		if sku.QPD > 0 {
			doi = stock / sku.QPD
		}

		totalInTransit := 0.0
		for _, order := range inTransit {
			totalInTransit += order.Quantity
		}

		orderPlaced := false
		orderQuantity := 0.0
		if doi <= float64(key.ReorderThreshold) && len(inTransit) == 0 {
			estimatedCalendarDays := float64(sku.LeadTimeDays) * workingToCalendarFactor
			orderQuantity = (float64(key.TargetDOI)+estimatedCalendarDays)*sku.QPD - stock
			if orderQuantity > 0 {
				orderPlaced = true
				inTransit = append(inTransit, domain.OutstandingOrder{
					ArrivalDate: AddWorkingDays(date, sku.LeadTimeDays),
					Quantity:    orderQuantity,
				})
			}
		}

		records = append(records, domain.DailyRecord{
			Date:                 date,
			SKUCode:              sku.Code,
			ProductName:          sku.ProductName,
			LeadTimeDays:         sku.LeadTimeDays,
			StockBeginning:       stockBeginning,
			Sales:                sales,
			StockReceived:        stockReceived,
			StockEnding:          stock,
			DOI:                  doi,
			OrderPlaced:          orderPlaced,
			OrderQuantity:        orderQuantity,
			OrdersInTransitQty:   totalInTransit,
			OrdersInTransitCount: len(inTransit),
		})
	}

	return records
}
