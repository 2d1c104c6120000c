package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/config"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/httpresp"
	"github.com/esteticafabiane/clinic-api/internal/models"
	"github.com/esteticafabiane/clinic-api/internal/validators"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		httperr.BadRequest(c, "missing_required_fields",
			"Nome, e-mail e senha (mínimo 6 caracteres) são obrigatórios")
		return
	}

	email := validators.NormalizeEmail(req.Email)

	// Em produção rejeitamos domínio sem MX/A antes de criar a conta.
	if h.cfg.IsProduction() && !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email", messageFor("invalid_email"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "hash_error", "Erro ao processar senha")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsDuplicateKey(err) {
			httperr.Conflict(c, "email_taken", messageFor("email_taken"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao criar usuário")
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		httperr.Internal(c, "token_error", "Erro ao gerar token")
		return
	}

	httpresp.Created(c, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Corpo da requisição inválido")
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", messageFor("invalid_credentials"))
			return
		}
		httperr.Internal(c, "store_error", "Erro ao buscar usuário")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", messageFor("invalid_credentials"))
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		httperr.Internal(c, "token_error", "Erro ao gerar token")
		return
	}

	httpresp.OK(c, authResponse{Token: token, User: user})
}

func (h *AuthHandler) signToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
