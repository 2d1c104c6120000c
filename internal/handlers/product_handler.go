package handlers

import (
	"errors"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/audit"
	"github.com/esteticafabiane/clinic-api/internal/domain/product"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/httpresp"
	"github.com/esteticafabiane/clinic-api/internal/middleware"
	"github.com/esteticafabiane/clinic-api/internal/models"
)

type ProductHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProductHandler(db *gorm.DB, audit *audit.Dispatcher) *ProductHandler {
	return &ProductHandler{db: db, audit: audit}
}

type createProductRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	UnitPrice     float64 `json:"unit_price"`
	CostPrice     float64 `json:"cost_price"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockAlert *int    `json:"min_stock_alert"`
}

type updateProductRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description"`
	UnitPrice     *float64 `json:"unit_price"`
	CostPrice     *float64 `json:"cost_price"`
	MinStockAlert *int     `json:"min_stock_alert"`
}

type stockRequest struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation"`
}

// productView expõe o produto com o status de estoque derivado na hora
// da leitura.
type productView struct {
	models.Product
	StockStatus string `json:"stock_status"`
}

func newProductView(p models.Product) productView {
	return productView{
		Product:     p,
		StockStatus: product.StockStatus(p.StockQuantity, p.MinStockAlert),
	}
}

func newProductViews(products []models.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	return out
}

func (h *ProductHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if c.Query("low_stock") == "true" {
		q = q.Where("stock_quantity <= min_stock_alert")
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao listar produtos")
		return
	}

	httpresp.OK(c, gin.H{"data": newProductViews(products)})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var p models.Product
	if err := h.db.WithContext(c.Request.Context()).
		First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", messageFor("product_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar produto")
		return
	}

	httpresp.OK(c, newProductView(p))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	if req.Name == "" || req.Category == "" {
		httperr.BadRequest(c, "missing_required_fields",
			"Nome e categoria são obrigatórios")
		return
	}
	if req.UnitPrice <= 0 {
		httperr.BadRequest(c, "invalid_price", messageFor("invalid_price"))
		return
	}
	if req.StockQuantity < 0 {
		httperr.BadRequest(c, "invalid_quantity", messageFor("invalid_quantity"))
		return
	}

	p := models.Product{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		MinStockAlert: 5,
	}
	if req.MinStockAlert != nil && *req.MinStockAlert >= 0 {
		p.MinStockAlert = *req.MinStockAlert
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao criar produto")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "product_created",
		Entity:   "product",
		EntityID: &p.ID,
	})

	httpresp.Created(c, newProductView(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	ctx := c.Request.Context()

	var p models.Product
	if err := h.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", messageFor("product_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar produto")
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice <= 0 {
			httperr.BadRequest(c, "invalid_price", messageFor("invalid_price"))
			return
		}
		p.UnitPrice = *req.UnitPrice
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.MinStockAlert != nil && *req.MinStockAlert >= 0 {
		p.MinStockAlert = *req.MinStockAlert
	}

	if err := h.db.WithContext(ctx).Save(&p).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao atualizar produto")
		return
	}

	httpresp.OK(c, newProductView(p))
}

// UpdateStock aplica set/add/subtract dentro de uma transação, relendo
// a quantidade corrente para não perder ajustes concorrentes.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	ctx := c.Request.Context()

	var p models.Product
	var previous int

	txErr := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("product_not_found")
			}
			return err
		}

		previous = p.StockQuantity

		next, err := product.ApplyStock(
			p.StockQuantity,
			req.Quantity,
			product.StockOperation(req.Operation),
		)
		if err != nil {
			return err
		}

		p.StockQuantity = next
		return tx.Save(&p).Error
	})
	if txErr != nil {
		writeBusiness(c, txErr, "product_not_found")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "product_stock_adjusted",
		Entity:   "product",
		EntityID: &p.ID,
		Metadata: map[string]any{
			"operation": req.Operation,
			"quantity":  req.Quantity,
			"from":      previous,
			"to":        p.StockQuantity,
		},
	})

	httpresp.OK(c, newProductView(p))
}

type lowStockAlert struct {
	productView
	Deficit int `json:"deficit"`
}

// LowStockAlerts lista produtos zerados ou abaixo do mínimo, os mais
// deficitários primeiro.
func (h *ProductHandler) LowStockAlerts(c *gin.Context) {
	var products []models.Product
	if err := h.db.WithContext(c.Request.Context()).
		Where("stock_quantity <= min_stock_alert").
		Find(&products).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao listar alertas")
		return
	}

	alerts := make([]lowStockAlert, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, lowStockAlert{
			productView: newProductView(p),
			Deficit:     product.Deficit(p.StockQuantity, p.MinStockAlert),
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Deficit > alerts[j].Deficit
	})

	httpresp.OK(c, gin.H{
		"data":  alerts,
		"total": len(alerts),
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return
	}

	ctx := c.Request.Context()

	var p models.Product
	if err := h.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", messageFor("product_not_found"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar produto")
		return
	}

	if err := h.db.WithContext(ctx).Delete(&p).Error; err != nil {
		httperr.Internal(c, "store_error", "Erro ao remover produto")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.CurrentUserID(c),
		Action:   "product_deleted",
		Entity:   "product",
		EntityID: &p.ID,
	})

	httpresp.OK(c, gin.H{"message": "Produto removido com sucesso"})
}
