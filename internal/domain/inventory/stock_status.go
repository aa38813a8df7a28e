package inventory

// StockStatus is the availability label derived from a stock level
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// DeriveStatus labels stock against the product's threshold, falling back to
// defaultThreshold when the product has none.
func DeriveStatus(stock int, threshold *int, defaultThreshold int) StockStatus {
	limit := defaultThreshold
	if threshold != nil {
		limit = *threshold
	}
	switch {
	case stock <= 0:
		return StockStatusOutOfStock
	case stock <= limit:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
