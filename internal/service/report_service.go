package service

import (
	"time"

	"github.com/shopspring/decimal"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/store"
)

// DailySummary aggregates one calendar day of sales. Cancelled orders count
// into CancelledCount but never into revenue or the method breakdown.
type DailySummary struct {
	Date            string                     `json:"date"` // YYYY-MM-DD
	TotalSales      int                        `json:"total_sales"`
	CancelledCount  int                        `json:"cancelled_count"`
	TotalRevenue    decimal.Decimal            `json:"total_revenue"`
	AverageTicket   decimal.Decimal            `json:"average_ticket"`
	MethodBreakdown map[string]decimal.Decimal `json:"method_breakdown"`
}

type ReportService interface {
	DailySummary(day time.Time) DailySummary
}

type reportService struct {
	rec *store.Reconciler
}

func NewReportService(rec *store.Reconciler) ReportService {
	return &reportService{rec: rec}
}

func (s *reportService) DailySummary(day time.Time) DailySummary {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	startMs := dayStart.UnixMilli()
	endMs := dayStart.AddDate(0, 0, 1).UnixMilli()

	summary := DailySummary{
		Date:            dayStart.Format("2006-01-02"),
		TotalRevenue:    decimal.Zero,
		AverageTicket:   decimal.Zero,
		MethodBreakdown: make(map[string]decimal.Decimal),
	}

	for _, o := range s.rec.Orders() {
		if o.Timestamp < startMs || o.Timestamp >= endMs {
			continue
		}
		if o.Status == model.StatusCancelled {
			summary.CancelledCount++
			continue
		}
		summary.TotalSales++
		summary.TotalRevenue = summary.TotalRevenue.Add(o.Total)

		method := string(o.PaymentMethod)
		summary.MethodBreakdown[method] = summary.MethodBreakdown[method].Add(o.Total)
	}

	if summary.TotalSales > 0 {
		summary.AverageTicket = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalSales))).
			Round(2)
	}

	return summary
}
