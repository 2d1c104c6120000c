package report

import (
	"fmt"
	"math"
	"sort"

	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/domain/product"
	"github.com/esteticafabiane/clinic-api/internal/models"
	"github.com/esteticafabiane/clinic-api/internal/timezone"
)

// Projeções puras sobre linhas já carregadas. Manter a aritmética fora
// do SQL deixa os relatórios testáveis sem banco.

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isCompleted(ap models.Appointment) bool {
	return ap.Status == string(domain.StatusCompleted)
}

// ==================================================
// Receita por período
// ==================================================

type RevenuePoint struct {
	Period                string  `json:"period"`
	TotalAppointments     int     `json:"total_appointments"`
	CompletedAppointments int     `json:"completed_appointments"`
	TotalRevenue          float64 `json:"total_revenue"`
}

func periodKey(date string, groupBy string) string {
	t, err := timezone.ParseDate(date)
	if err != nil {
		return date
	}

	switch groupBy {
	case "month":
		return t.Format("2006-01")
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return t.Format(timezone.DateLayout)
	}
}

// RevenueByPeriod agrupa por dia, semana ISO ou mês. Receita conta
// apenas agendamentos concluídos.
func RevenueByPeriod(aps []models.Appointment, groupBy string) []RevenuePoint {
	byPeriod := make(map[string]*RevenuePoint)

	for _, ap := range aps {
		key := periodKey(ap.AppointmentDate, groupBy)
		p, ok := byPeriod[key]
		if !ok {
			p = &RevenuePoint{Period: key}
			byPeriod[key] = p
		}

		p.TotalAppointments++
		if isCompleted(ap) {
			p.CompletedAppointments++
			p.TotalRevenue = round2(p.TotalRevenue + ap.TotalPrice)
		}
	}

	out := make([]RevenuePoint, 0, len(byPeriod))
	for _, p := range byPeriod {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period < out[j].Period
	})
	return out
}

// ==================================================
// Serviços mais populares
// ==================================================

type ServiceRanking struct {
	ServiceID         uint    `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// PopularServices ranqueia por reservas e depois por receita, ambos
// decrescentes. Serviços sem reserva aparecem zerados.
func PopularServices(services []models.Service, aps []models.Appointment, limit int) []ServiceRanking {
	byService := make(map[uint]*ServiceRanking, len(services))
	out := make([]ServiceRanking, 0, len(services))

	for _, s := range services {
		byService[s.ID] = &ServiceRanking{
			ServiceID: s.ID,
			Name:      s.Name,
			Category:  s.Category,
			Price:     s.Price,
		}
	}

	for _, ap := range aps {
		r, ok := byService[ap.ServiceID]
		if !ok {
			continue
		}
		r.TotalBookings++
		if isCompleted(ap) {
			r.CompletedBookings++
			r.TotalRevenue = round2(r.TotalRevenue + ap.TotalPrice)
		}
	}

	for _, s := range services {
		out = append(out, *byService[s.ID])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBookings != out[j].TotalBookings {
			return out[i].TotalBookings > out[j].TotalBookings
		}
		return out[i].TotalRevenue > out[j].TotalRevenue
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ==================================================
// Clientes
// ==================================================

type ClientSummary struct {
	ClientID              uint    `json:"id"`
	FullName              string  `json:"full_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	TotalAppointments     int     `json:"total_appointments"`
	CompletedAppointments int     `json:"completed_appointments"`
	TotalSpent            float64 `json:"total_spent"`
	LastAppointment       string  `json:"last_appointment,omitempty"`
}

func ClientSummaries(clients []models.Client, aps []models.Appointment) []ClientSummary {
	byClient := make(map[uint]*ClientSummary, len(clients))
	out := make([]ClientSummary, 0, len(clients))

	for _, c := range clients {
		email := ""
		if c.Email != nil {
			email = *c.Email
		}
		byClient[c.ID] = &ClientSummary{
			ClientID: c.ID,
			FullName: c.FullName,
			Email:    email,
			Phone:    c.Phone,
		}
	}

	for _, ap := range aps {
		s, ok := byClient[ap.ClientID]
		if !ok {
			continue
		}
		s.TotalAppointments++
		if isCompleted(ap) {
			s.CompletedAppointments++
			s.TotalSpent = round2(s.TotalSpent + ap.TotalPrice)
		}
		if ap.AppointmentDate > s.LastAppointment {
			s.LastAppointment = ap.AppointmentDate
		}
	}

	for _, c := range clients {
		out = append(out, *byClient[c.ID])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].TotalAppointments > out[j].TotalAppointments
	})
	return out
}

// ==================================================
// Cancelamentos / faltas
// ==================================================

type CancellationPoint struct {
	Date             string  `json:"date"`
	Total            int     `json:"total_appointments"`
	Cancelled        int     `json:"cancelled_appointments"`
	NoShow           int     `json:"no_show_appointments"`
	CancellationRate float64 `json:"cancellation_rate"`
}

// CancellationByDay calcula a taxa de cancelamento+falta como
// percentual do total do dia, com duas casas.
func CancellationByDay(aps []models.Appointment) []CancellationPoint {
	byDay := make(map[string]*CancellationPoint)

	for _, ap := range aps {
		p, ok := byDay[ap.AppointmentDate]
		if !ok {
			p = &CancellationPoint{Date: ap.AppointmentDate}
			byDay[ap.AppointmentDate] = p
		}
		p.Total++
		switch ap.Status {
		case string(domain.StatusCancelled):
			p.Cancelled++
		case string(domain.StatusNoShow):
			p.NoShow++
		}
	}

	out := make([]CancellationPoint, 0, len(byDay))
	for _, p := range byDay {
		if p.Total > 0 {
			p.CancellationRate = round2(float64(p.Cancelled+p.NoShow) / float64(p.Total) * 100)
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// ==================================================
// Inventário
// ==================================================

type InventoryItem struct {
	ProductID     uint    `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	UnitPrice     float64 `json:"unit_price"`
	CostPrice     float64 `json:"cost_price"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockAlert int     `json:"min_stock_alert"`
	StockValue    float64 `json:"stock_value"`
	StockStatus   string  `json:"stock_status"`
	ProfitMargin  float64 `json:"profit_margin"`
}

type InventorySummary struct {
	TotalProducts   int     `json:"total_products"`
	TotalStockValue float64 `json:"total_stock_value"`
	OutOfStock      int     `json:"out_of_stock"`
	LowStock        int     `json:"low_stock"`
}

func Inventory(products []models.Product) ([]InventoryItem, InventorySummary) {
	items := make([]InventoryItem, 0, len(products))
	var summary InventorySummary

	for _, p := range products {
		status := product.StockStatus(p.StockQuantity, p.MinStockAlert)

		margin := 0.0
		if p.CostPrice > 0 {
			margin = round2((p.UnitPrice - p.CostPrice) / p.CostPrice * 100)
		}

		value := round2(p.UnitPrice * float64(p.StockQuantity))

		items = append(items, InventoryItem{
			ProductID:     p.ID,
			Name:          p.Name,
			Category:      p.Category,
			UnitPrice:     p.UnitPrice,
			CostPrice:     p.CostPrice,
			StockQuantity: p.StockQuantity,
			MinStockAlert: p.MinStockAlert,
			StockValue:    value,
			StockStatus:   status,
			ProfitMargin:  margin,
		})

		summary.TotalProducts++
		summary.TotalStockValue = round2(summary.TotalStockValue + value)
		switch status {
		case product.StockOut:
			summary.OutOfStock++
			summary.LowStock++
		case product.StockLow:
			summary.LowStock++
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].StockValue > items[j].StockValue
	})
	return items, summary
}
