package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/repository"
)

// LowStockThreshold marks products that need restocking on the dashboard.
const LowStockThreshold = 5

// Dashboard is the admin analytics rollup for one period. All numbers come
// from a linear scan of the period's orders; at boutique volumes that is
// plenty.
type Dashboard struct {
	Period            string           `json:"period"`
	Revenue           Revenue          `json:"revenue"`
	Orders            OrderCounts      `json:"orders"`
	AverageOrderValue float64          `json:"average_order_value"`
	TopProducts       []ProductSales   `json:"top_products"`
	DailyRevenue      []DailyPoint     `json:"daily_revenue"`
	DailyNewCustomers []DailyCount     `json:"daily_new_customers"`
	LowStock          []models.Product `json:"low_stock"`
	OutOfStock        []models.Product `json:"out_of_stock"`
}

// Revenue splits period revenue by order outcome.
type Revenue struct {
	Total     float64 `json:"total"`
	Completed float64 `json:"completed"`
	Pending   float64 `json:"pending"`
	Cancelled float64 `json:"cancelled"`
}

// OrderCounts buckets period orders by status. Total always equals the sum
// of the buckets: processing/shipped/delivered count as pending work.
type OrderCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

// ProductSales is one row of the top-products table.
type ProductSales struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Revenue   float64   `json:"revenue"`
}

// DailyPoint is one day of the revenue series.
type DailyPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// DailyCount is one day of the customer-growth series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsService computes the admin dashboard and the CSV order export.
type AnalyticsService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{orders: orders, products: products, users: users, logger: logger}
}

// PeriodRange translates a period name into [from, to).
func PeriodRange(period string, now time.Time) (time.Time, time.Time) {
	to := now
	var from time.Time
	switch period {
	case "today":
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		from = now.AddDate(0, 0, -7)
	case "month":
		from = now.AddDate(0, -1, 0)
	case "year":
		from = now.AddDate(-1, 0, 0)
	default:
		from = now.AddDate(0, -1, 0)
	}
	return from, to
}

// BuildDashboard computes the full rollup for a period.
func (s *AnalyticsService) BuildDashboard(ctx context.Context, period string, topN int) (*Dashboard, *ServiceError) {
	now := time.Now()
	from, to := PeriodRange(period, now)

	orders, err := s.orders.FindInPeriod(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to load orders for analytics", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute analytics"}
	}

	dash := &Dashboard{Period: period}
	dash.Revenue, dash.Orders = summarize(orders)
	if dash.Orders.Total > 0 {
		dash.AverageOrderValue = round2(dash.Revenue.Total / float64(dash.Orders.Total))
	}
	dash.TopProducts = topProducts(orders, topN)

	// The daily series always covers a fixed 30-day window, independent of
	// the requested period.
	seriesFrom := now.AddDate(0, 0, -29)
	seriesFrom = time.Date(seriesFrom.Year(), seriesFrom.Month(), seriesFrom.Day(), 0, 0, 0, 0, now.Location())
	seriesOrders, err := s.orders.FindInPeriod(ctx, seriesFrom, now)
	if err != nil {
		s.logger.Error("Failed to load series orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute analytics"}
	}
	signups, err := s.users.CreatedAtInPeriod(ctx, seriesFrom, now)
	if err != nil {
		s.logger.Error("Failed to load signups", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute analytics"}
	}
	dash.DailyRevenue, dash.DailyNewCustomers = dailySeries(seriesOrders, signups, seriesFrom, 30)

	low, err := s.products.FindLowStock(ctx, LowStockThreshold)
	if err != nil {
		s.logger.Error("Failed to load low-stock products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute analytics"}
	}
	dash.LowStock = []models.Product{}
	dash.OutOfStock = []models.Product{}
	for _, p := range low {
		if p.Stock == 0 {
			dash.OutOfStock = append(dash.OutOfStock, p)
		} else {
			dash.LowStock = append(dash.LowStock, p)
		}
	}

	return dash, nil
}

// ExportOrdersCSV streams the period's orders as CSV: header line first,
// text fields quoted with internal quotes doubled (encoding/csv semantics).
func (s *AnalyticsService) ExportOrdersCSV(ctx context.Context, period string, w io.Writer) *ServiceError {
	from, to := PeriodRange(period, time.Now())
	orders, err := s.orders.FindInPeriod(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to load orders for export", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to export orders"}
	}

	cw := csv.NewWriter(w)
	header := []string{"order_number", "created_at", "customer_name", "customer_email",
		"status", "payment_status", "subtotal", "discount", "shipping", "tax", "total", "items"}
	if err := cw.Write(header); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to export orders"}
	}

	for _, o := range orders {
		itemCount := 0
		for _, it := range o.Items {
			itemCount += it.Quantity
		}
		row := []string{
			o.OrderNumber,
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.CustomerName,
			o.CustomerEmail,
			o.Status,
			o.PaymentStatus,
			fmt.Sprintf("%.2f", o.Subtotal),
			fmt.Sprintf("%.2f", o.Discount),
			fmt.Sprintf("%.2f", o.Shipping),
			fmt.Sprintf("%.2f", o.Tax),
			fmt.Sprintf("%.2f", o.Total),
			fmt.Sprintf("%d", itemCount),
		}
		if err := cw.Write(row); err != nil {
			return &ServiceError{StatusCode: 500, Message: "Failed to export orders"}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to export orders"}
	}
	return nil
}

func summarize(orders []models.Order) (Revenue, OrderCounts) {
	var rev Revenue
	var counts OrderCounts
	for _, o := range orders {
		counts.Total++
		rev.Total += o.Total
		switch o.Status {
		case models.OrderStatusCompleted:
			counts.Completed++
			rev.Completed += o.Total
		case models.OrderStatusCancelled:
			counts.Cancelled++
			rev.Cancelled += o.Total
		default:
			counts.Pending++
			rev.Pending += o.Total
		}
	}
	rev.Total = round2(rev.Total)
	rev.Completed = round2(rev.Completed)
	rev.Pending = round2(rev.Pending)
	rev.Cancelled = round2(rev.Cancelled)
	return rev, counts
}

func topProducts(orders []models.Order, n int) []ProductSales {
	if n <= 0 {
		n = 5
	}
	acc := make(map[uuid.UUID]*ProductSales)
	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			ps, ok := acc[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				acc[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue = round2(ps.Revenue + item.UnitPrice*float64(item.Quantity))
		}
	}

	result := make([]ProductSales, 0, len(acc))
	for _, ps := range acc {
		result = append(result, *ps)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

func dailySeries(orders []models.Order, signups []time.Time, from time.Time, days int) ([]DailyPoint, []DailyCount) {
	revenue := make([]DailyPoint, days)
	customers := make([]DailyCount, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		revenue[i].Date = date
		customers[i].Date = date
	}

	dayIndex := func(t time.Time) int {
		return int(t.Sub(from).Hours() / 24)
	}

	for _, o := range orders {
		if i := dayIndex(o.CreatedAt); i >= 0 && i < days {
			revenue[i].Revenue = round2(revenue[i].Revenue + o.Total)
			revenue[i].Orders++
		}
	}
	for _, ts := range signups {
		if i := dayIndex(ts); i >= 0 && i < days {
			customers[i].Count++
		}
	}
	return revenue, customers
}
