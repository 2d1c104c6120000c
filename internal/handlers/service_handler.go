package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/audit"
	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/httpresp"
	"github.com/esteticafabiane/clinic-api/internal/middleware"
	"github.com/esteticafabiane/clinic-api/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

type createServiceRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_minutes"`
	Description string  `json:"description"`
}

type updateServiceRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	DurationMin *int     `json:"duration_minutes"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Service{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.Order("category ASC, name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao listar serviços")
		return
	}

	httpresp.OK(c, gin.H{"data": services})
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", messageFor("service_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar serviço")
		return
	}

	httpresp.OK(c, service)
}

// Stats resume as reservas do serviço: totais por status e receita dos
// concluídos.
func (h *ServiceHandler) Stats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ctx := c.Request.Context()

	var service models.Service
	if err := h.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", messageFor("service_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar serviço")
		return
	}

	var aps []models.Appointment
	if err := h.db.WithContext(ctx).
		Where("service_id = ?", service.ID).
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao buscar agendamentos")
		return
	}

	var completed, cancelled int
	var revenue float64
	for _, ap := range aps {
		switch ap.Status {
		case string(domain.StatusCompleted):
			completed++
			revenue += ap.TotalPrice
		case string(domain.StatusCancelled):
			cancelled++
		}
	}

	httpresp.OK(c, gin.H{
		"service":            service,
		"total_bookings":     len(aps),
		"completed_bookings": completed,
		"cancelled_bookings": cancelled,
		"total_revenue":      revenue,
	})
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	if req.Name == "" || req.Category == "" {
		httperr.BadRequest(c, "missing_required_fields",
			"Nome e categoria são obrigatórios")
		return
	}
	if req.Price <= 0 {
		httperr.BadRequest(c, "invalid_price", messageFor("invalid_price"))
		return
	}

	service := models.Service{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Description: req.Description,
		Status:      "active",
	}
	if service.DurationMin <= 0 {
		service.DurationMin = 60
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao criar serviço")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
	})

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var req updateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	ctx := c.Request.Context()

	var service models.Service
	if err := h.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", messageFor("service_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar serviço")
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, "invalid_price", messageFor("invalid_price"))
			return
		}
		service.Price = *req.Price
	}
	if req.DurationMin != nil && *req.DurationMin > 0 {
		service.DurationMin = *req.DurationMin
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Status != nil {
		if *req.Status != "active" && *req.Status != "inactive" {
			httperr.BadRequest(c, "invalid_status", messageFor("invalid_status"))
			return
		}
		service.Status = *req.Status
	}

	if err := h.db.WithContext(ctx).Save(&service).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao atualizar serviço")
		return
	}

	httpresp.OK(c, service)
}

// Delete desativa o serviço quando há agendamentos vinculados; sem
// vínculo a linha é removida de fato.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ctx := c.Request.Context()

	var service models.Service
	if err := h.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", messageFor("service_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar serviço")
		return
	}

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("service_id = ?", service.ID).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao verificar agendamentos")
		return
	}

	if count > 0 {
		service.Status = "inactive"
		if err := h.db.WithContext(ctx).Save(&service).Error; err != nil {
			httperr.Internal(c, "store_error", "Erro ao desativar serviço")
			return
		}

		h.audit.Dispatch(audit.Event{
			UserID:   middleware.CurrentUserID(c),
			Action:   "service_deactivated",
			Entity:   "service",
			EntityID: &service.ID,
		})

		httpresp.OK(c, gin.H{
			"message": "Serviço possui agendamentos e foi desativado",
			"service": service,
		})
		return
	}

	if err := h.db.WithContext(ctx).Delete(&service).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao remover serviço")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &service.ID,
	})

	httpresp.OK(c, gin.H{"message": "Serviço removido com sucesso"})
}
