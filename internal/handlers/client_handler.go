package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/audit"
	"github.com/esteticafabiane/clinic-api/internal/dto"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/httpresp"
	"github.com/esteticafabiane/clinic-api/internal/middleware"
	"github.com/esteticafabiane/clinic-api/internal/models"
	"github.com/esteticafabiane/clinic-api/internal/timezone"
	"github.com/esteticafabiane/clinic-api/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

type createClientRequest struct {
	FullName     string  `json:"full_name"`
	Email        *string `json:"email"`
	Phone        string  `json:"phone"`
	BirthDate    *string `json:"birth_date"`
	Gender       string  `json:"gender"`
	Address      string  `json:"address"`
	Observations string  `json:"observations"`
}

type updateClientRequest struct {
	FullName     *string `json:"full_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	BirthDate    *string `json:"birth_date"`
	Gender       *string `json:"gender"`
	Address      *string `json:"address"`
	Observations *string `json:"observations"`
}

// List devolve os clientes paginados, com busca opcional por nome,
// telefone ou e-mail.
func (h *ClientHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Client{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"full_name LIKE ? OR phone LIKE ? OR email LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao listar clientes")
		return
	}

	var clients []models.Client
	if err := q.
		Order("full_name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&clients).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao listar clientes")
		return
	}

	httpresp.Paginated(c, clients, page, limit, total)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", messageFor("client_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar cliente")
		return
	}

	httpresp.OK(c, client)
}

// History lista o histórico de agendamentos do cliente, mais recentes
// primeiro.
func (h *ClientHandler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ctx := c.Request.Context()

	var client models.Client
	if err := h.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", messageFor("client_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar cliente")
		return
	}

	var aps []models.Appointment
	if err := h.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("client_id = ?", client.ID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao buscar histórico")
		return
	}

	httpresp.OK(c, gin.H{
		"client":       client,
		"appointments": dto.NewAppointmentListDTOs(aps),
	})
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	if req.FullName == "" || req.Phone == "" {
		httperr.BadRequest(c, "missing_required_fields",
			"Nome completo e telefone são obrigatórios")
		return
	}

	if req.Email != nil && *req.Email != "" {
		normalized := validators.NormalizeEmail(*req.Email)
		req.Email = &normalized
	} else {
		req.Email = nil
	}

	if req.BirthDate != nil && *req.BirthDate != "" {
		if _, err := timezone.ParseDate(*req.BirthDate); err != nil {
			httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
			return
		}
	} else {
		req.BirthDate = nil
	}

	client := models.Client{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		BirthDate:    req.BirthDate,
		Gender:       req.Gender,
		Address:      req.Address,
		Observations: req.Observations,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		if httperr.IsDuplicateKey(err) {
			httperr.Conflict(c, "email_taken", messageFor("email_taken"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao criar cliente")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "client_created",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.Created(c, client)
}

// Update aplica atualização parcial: campos ausentes ficam como estão.
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	ctx := c.Request.Context()

	var client models.Client
	if err := h.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", messageFor("client_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar cliente")
		return
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			httperr.BadRequest(c, "missing_required_fields", "Nome não pode ser vazio")
			return
		}
		client.FullName = *req.FullName
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			httperr.BadRequest(c, "missing_required_fields", "Telefone não pode ser vazio")
			return
		}
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		if *req.Email == "" {
			client.Email = nil
		} else {
			normalized := validators.NormalizeEmail(*req.Email)
			client.Email = &normalized
		}
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			client.BirthDate = nil
		} else {
			if _, err := timezone.ParseDate(*req.BirthDate); err != nil {
				httperr.BadRequest(c, "invalid_date", messageFor("invalid_date"))
				return
			}
			client.BirthDate = req.BirthDate
		}
	}
	if req.Gender != nil {
		client.Gender = *req.Gender
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Observations != nil {
		client.Observations = *req.Observations
	}

	if err := h.db.WithContext(ctx).Save(&client).Error; err != nil {
		if httperr.IsDuplicateKey(err) {
			httperr.Conflict(c, "email_taken", messageFor("email_taken"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao atualizar cliente")
		return
	}

	httpresp.OK(c, client)
}

// Delete remove o cliente apenas quando não há agendamentos vinculados.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ctx := c.Request.Context()

	var client models.Client
	if err := h.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", messageFor("client_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar cliente")
		return
	}

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("client_id = ?", client.ID).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao verificar agendamentos")
		return
	}
	if count > 0 {
		httperr.Conflict(c, "client_has_appointments", messageFor("client_has_appointments"))
		return
	}

	if err := h.db.WithContext(ctx).Delete(&client).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao remover cliente")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.OK(c, gin.H{"message": "Cliente removido com sucesso"})
}
