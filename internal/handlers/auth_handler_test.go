package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Fabiane",
		"email":    "Fabiane@Clinic.Test",
		"password": "segredo123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decode(t, w, &created)
	if created.Token == "" {
		t.Error("expected token on register")
	}
	if created.User.Email != "fabiane@clinic.test" {
		t.Errorf("email not normalized: %q", created.User.Email)
	}

	// Login usa o e-mail em qualquer caixa
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "FABIANE@clinic.test",
		"password": "segredo123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupServer(t)

	body := gin.H{
		"name":     "Fabiane",
		"email":    "fabiane@clinic.test",
		"password": "segredo123",
	}

	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "email_taken" {
		t.Errorf("error code = %q, want email_taken", code)
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "fabiane@clinic.test",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupServer(t)
	authToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "fabiane@clinic.test",
		"password": "errada",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if code := errorCode(t, w); code != "invalid_credentials" {
		t.Errorf("error code = %q, want invalid_credentials", code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupServer(t)

	if w := doJSON(t, r, http.MethodGet, "/api/clients", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	if w := doJSON(t, r, http.MethodGet, "/api/clients", "not-a-token", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}
}

func TestHealthIsOpen(t *testing.T) {
	r, _ := setupServer(t)

	if w := doJSON(t, r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}
}
