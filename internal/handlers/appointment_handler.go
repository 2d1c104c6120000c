package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/httpresp"
	"github.com/esteticafabiane/clinic-api/internal/middleware"
	usecase "github.com/esteticafabiane/clinic-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	createUC *usecase.CreateAppointment
	updateUC *usecase.UpdateAppointment
	cancelUC *usecase.CancelAppointment
	listUC   *usecase.ListAppointments
	getUC    *usecase.GetAppointment
	agendaUC *usecase.Agenda
}

func NewAppointmentHandler(
	createUC *usecase.CreateAppointment,
	updateUC *usecase.UpdateAppointment,
	cancelUC *usecase.CancelAppointment,
	listUC *usecase.ListAppointments,
	getUC *usecase.GetAppointment,
	agendaUC *usecase.Agenda,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC: createUC,
		updateUC: updateUC,
		cancelUC: cancelUC,
		listUC:   listUC,
		getUC:    getUC,
		agendaUC: agendaUC,
	}
}

type createAppointmentRequest struct {
	ClientID        uint    `json:"client_id"`
	ServiceID       uint    `json:"service_id"`
	AppointmentDate string  `json:"appointment_date"`
	AppointmentTime string  `json:"appointment_time"`
	Observations    string  `json:"observations"`
	TotalPrice      float64 `json:"total_price"`
}

type updateAppointmentRequest struct {
	ClientID        *uint    `json:"client_id"`
	ServiceID       *uint    `json:"service_id"`
	AppointmentDate *string  `json:"appointment_date"`
	AppointmentTime *string  `json:"appointment_time"`
	Status          *string  `json:"status"`
	Observations    *string  `json:"observations"`
	TotalPrice      *float64 `json:"total_price"`
}

func (h *AppointmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	clientID, _ := strconv.Atoi(c.Query("client_id"))
	serviceID, _ := strconv.Atoi(c.Query("service_id"))

	f := domain.ListFilter{
		Date:      c.Query("date"),
		Status:    c.Query("status"),
		ClientID:  uint(clientID),
		ServiceID: uint(serviceID),
		Page:      page,
		Limit:     limit,
	}

	aps, total, err := h.listUC.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "store_error", "Erro ao listar agendamentos")
		return
	}

	httpresp.Paginated(c, aps, f.Page, f.Limit, total)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), uint(id))
	if err != nil {
		writeBusiness(c, err, "appointment_not_found")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		ClientID:     req.ClientID,
		ServiceID:    req.ServiceID,
		Date:         req.AppointmentDate,
		Time:         req.AppointmentTime,
		Observations: req.Observations,
		TotalPrice:   req.TotalPrice,
		UserID:       middleware.CurrentUserID(c),
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), uint(id), usecase.UpdateAppointmentInput{
		ClientID:     req.ClientID,
		ServiceID:    req.ServiceID,
		Date:         req.AppointmentDate,
		Time:         req.AppointmentTime,
		Status:       req.Status,
		Observations: req.Observations,
		TotalPrice:   req.TotalPrice,
		UserID:       middleware.CurrentUserID(c),
	})
	if err != nil {
		writeBusiness(c, err, "appointment_not_found")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ap, err := h.cancelUC.Execute(
		c.Request.Context(),
		uint(id),
		middleware.CurrentUserID(c),
	)
	if err != nil {
		writeBusiness(c, err, "appointment_not_found")
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Agendamento cancelado com sucesso",
		"appointment": ap,
	})
}

// AgendaForDay lista o dia em ordem de horário, sem cancelados.
func (h *AppointmentHandler) AgendaForDay(c *gin.Context) {
	aps, err := h.agendaUC.ForDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":         c.Param("date"),
		"appointments": aps,
	})
}

// Upcoming lista o que ainda vai acontecer hoje.
func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	aps, err := h.agendaUC.UpcomingToday(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "store_error", "Erro ao buscar agenda")
		return
	}

	httpresp.OK(c, gin.H{"appointments": aps})
}

func (h *AppointmentHandler) AgendaForMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_date", "Ano inválido")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_date", "Mês inválido")
		return
	}

	aps, err := h.agendaUC.ForMonth(c.Request.Context(), year, month)
	if err != nil {
		httperr.Internal(c, "store_error", "Erro ao buscar agenda")
		return
	}

	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}
