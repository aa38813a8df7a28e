package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records storefront domain counters. It satisfies the
// metrics ports of the trade, promotion and inventory services.
type BusinessMetrics struct {
	ordersPlaced      *Counter
	orderAmount       *Histogram
	orderTransitions  *Counter
	couponRedemptions *Counter
	stockMovements    *Counter
	stockQuantity     *Counter
	reaperRuns        *Counter
	reaperCancelled   *Counter
	reaperFailed      *Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		bm  BusinessMetrics
		err error
	)
	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.ordersPlaced, "orders_placed_total", "Orders placed at checkout", "{order}"},
		{&bm.orderTransitions, "order_status_transitions_total", "Order status changes", "{transition}"},
		{&bm.couponRedemptions, "coupon_redemptions_total", "Coupon validation and reservation outcomes", "{redemption}"},
		{&bm.stockMovements, "stock_movements_total", "Stock movements recorded", "{movement}"},
		{&bm.stockQuantity, "stock_movement_quantity_total", "Units moved by stock movements", "{unit}"},
		{&bm.reaperRuns, "order_reaper_runs_total", "Pending order reaper runs", "{run}"},
		{&bm.reaperCancelled, "order_reaper_cancelled_total", "Orders cancelled for missing the payment deadline", "{order}"},
		{&bm.reaperFailed, "order_reaper_failed_total", "Expired orders the reaper could not cancel", "{order}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	bm.orderAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "order_amount",
		Description: "Final amount of placed orders",
		Unit:        "{currency}",
		Boundaries:  OrderAmountBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordOrderPlaced counts a placed order and its final amount
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, amount float64, withCoupon bool) {
	bm.ordersPlaced.Inc(ctx, AttrPaymentMethod.String(paymentMethod), AttrWithCoupon.Bool(withCoupon))
	bm.orderAmount.Record(ctx, amount, AttrPaymentMethod.String(paymentMethod))
}

// RecordOrderStatusChange counts an order transition
func (bm *BusinessMetrics) RecordOrderStatusChange(ctx context.Context, from, to string) {
	bm.orderTransitions.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// RecordCouponRedemption counts a coupon outcome such as "reserved" or "exhausted"
func (bm *BusinessMetrics) RecordCouponRedemption(ctx context.Context, code, outcome string) {
	bm.couponRedemptions.Inc(ctx, AttrCouponCode.String(code), AttrOutcome.String(outcome))
}

// RecordStockMovement counts a movement and the units it moved
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, direction string, quantity int) {
	bm.stockMovements.Inc(ctx, AttrDirection.String(direction))
	bm.stockQuantity.Add(ctx, int64(quantity), AttrDirection.String(direction))
}

// RecordReaperRun counts a reaper pass and its results
func (bm *BusinessMetrics) RecordReaperRun(ctx context.Context, cancelled, failed int) {
	bm.reaperRuns.Inc(ctx)
	if cancelled > 0 {
		bm.reaperCancelled.Add(ctx, int64(cancelled))
	}
	if failed > 0 {
		bm.reaperFailed.Add(ctx, int64(failed))
	}
}
