package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/cache"
	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/domain/report"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/httpresp"
	"github.com/esteticafabiane/clinic-api/internal/models"
	"github.com/esteticafabiane/clinic-api/internal/timezone"
)

type ReportHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewReportHandler(db *gorm.DB, c *cache.Cache) *ReportHandler {
	return &ReportHandler{db: db, cache: c}
}

func (h *ReportHandler) loadAppointments(c *gin.Context, start, end string) ([]models.Appointment, bool) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Appointment{})

	if start != "" {
		q = q.Where("appointment_date >= ?", start)
	}
	if end != "" {
		q = q.Where("appointment_date <= ?", end)
	}

	var aps []models.Appointment
	if err := q.Find(&aps).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao carregar agendamentos")
		return nil, false
	}
	return aps, true
}

func parseRange(c *gin.Context, required bool) (string, string, bool) {
	start := c.Query("start_date")
	end := c.Query("end_date")

	if required && (start == "" || end == "") {
		httperr.BadRequest(c, "missing_date_range",
			"start_date e end_date são obrigatórios")
		return "", "", false
	}

	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := timezone.ParseDate(d); err != nil {
			httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
			return "", "", false
		}
	}

	return start, end, true
}

// Stats devolve os totais gerais da clínica.
func (h *ReportHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var clients, services, products, appointments int64
	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Client{}, &clients},
		{&models.Service{}, &services},
		{&models.Product{}, &products},
		{&models.Appointment{}, &appointments},
	}
	for _, cnt := range counts {
		if err := h.db.WithContext(ctx).Model(cnt.model).Count(cnt.dest).Error; err != nil {
			httperr.Internal(c, "store_error", "Erro ao carregar estatísticas")
			return
		}
	}

	var completed []models.Appointment
	if err := h.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusCompleted)).
		Find(&completed).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao carregar estatísticas")
		return
	}

	var revenue float64
	for _, ap := range completed {
		revenue += ap.TotalPrice
	}

	httpresp.OK(c, gin.H{
		"total_clients":          clients,
		"total_services":         services,
		"total_products":         products,
		"total_appointments":     appointments,
		"completed_appointments": len(completed),
		"total_revenue":          revenue,
	})
}

type dashboardData struct {
	Date              string  `json:"date"`
	AppointmentsToday int     `json:"appointments_today"`
	UpcomingToday     int     `json:"upcoming_today"`
	MonthRevenue      float64 `json:"month_revenue"`
	TotalClients      int64   `json:"total_clients"`
	LowStockProducts  int64   `json:"low_stock_products"`
}

// Dashboard monta o resumo do dia. O resultado fica em cache por um
// curto período; com redis fora do ar respondemos direto do banco.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	today := timezone.Today()
	key := "reports:dashboard:" + today

	var data dashboardData
	if h.cache.Get(ctx, key, &data) {
		httpresp.OK(c, data)
		return
	}

	data = dashboardData{Date: today}

	var todayAps []models.Appointment
	if err := h.db.WithContext(ctx).
		Where("appointment_date = ?", today).
		Find(&todayAps).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao montar dashboard")
		return
	}
	for _, ap := range todayAps {
		if ap.Status != string(domain.StatusCancelled) {
			data.AppointmentsToday++
		}
		if ap.Status == string(domain.StatusScheduled) ||
			ap.Status == string(domain.StatusConfirmed) {
			data.UpcomingToday++
		}
	}

	now := timezone.Now()
	monthStart := fmt.Sprintf("%04d-%02d-01", now.Year(), int(now.Month()))
	var monthCompleted []models.Appointment
	if err := h.db.WithContext(ctx).
		Where(
			"appointment_date >= ? AND appointment_date <= ? AND status = ?",
			monthStart,
			today,
			string(domain.StatusCompleted),
		).
		Find(&monthCompleted).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao montar dashboard")
		return
	}
	for _, ap := range monthCompleted {
		data.MonthRevenue += ap.TotalPrice
	}

	if err := h.db.WithContext(ctx).
		Model(&models.Client{}).
		Count(&data.TotalClients).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao montar dashboard")
		return
	}

	if err := h.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("stock_quantity <= min_stock_alert").
		Count(&data.LowStockProducts).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao montar dashboard")
		return
	}

	h.cache.Set(ctx, key, data)
	httpresp.OK(c, data)
}

// Revenue agrupa a receita por dia, semana ou mês dentro do intervalo
// pedido.
func (h *ReportHandler) Revenue(c *gin.Context) {
	start, end, ok := parseRange(c, true)
	if !ok {
		return
	}

	groupBy := c.DefaultQuery("group_by", "day")
	switch groupBy {
	case "day", "week", "month":
	default:
		httperr.BadRequest(c, "invalid_group_by",
			"group_by deve ser day, week ou month")
		return
	}

	aps, ok := h.loadAppointments(c, start, end)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{
		"start_date": start,
		"end_date":   end,
		"group_by":   groupBy,
		"data":       report.RevenueByPeriod(aps, groupBy),
	})
}

func (h *ReportHandler) PopularServices(c *gin.Context) {
	start, end, ok := parseRange(c, false)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Find(&services).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao carregar serviços")
		return
	}

	aps, ok := h.loadAppointments(c, start, end)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{
		"data": report.PopularServices(services, aps, limit),
	})
}

func (h *ReportHandler) Clients(c *gin.Context) {
	var clients []models.Client
	if err := h.db.WithContext(c.Request.Context()).
		Find(&clients).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao carregar clientes")
		return
	}

	aps, ok := h.loadAppointments(c, "", "")
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{
		"data": report.ClientSummaries(clients, aps),
	})
}

func (h *ReportHandler) Cancellations(c *gin.Context) {
	start, end, ok := parseRange(c, false)
	if !ok {
		return
	}

	aps, ok := h.loadAppointments(c, start, end)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{
		"data": report.CancellationByDay(aps),
	})
}

func (h *ReportHandler) Inventory(c *gin.Context) {
	var products []models.Product
	if err := h.db.WithContext(c.Request.Context()).
		Find(&products).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao carregar produtos")
		return
	}

	items, summary := report.Inventory(products)

	httpresp.OK(c, gin.H{
		"data":    items,
		"summary": summary,
	})
}
