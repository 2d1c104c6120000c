package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/esteticafabiane/clinic-api/internal/models"
)

func TestCreateClient(t *testing.T) {
	r, _ := setupServer(t)
	token := authToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"full_name": "Ana Silva",
		"email":     "Ana@Example.com",
		"phone":     "11999990000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var client models.Client
	decode(t, w, &client)
	if client.ID == 0 {
		t.Error("expected client id")
	}
	if client.Email == nil || *client.Email != "ana@example.com" {
		t.Errorf("email not normalized: %v", client.Email)
	}
	if client.Gender != "nao_informado" {
		t.Errorf("gender default = %q, want nao_informado", client.Gender)
	}
}

func TestCreateClientRequiresNameAndPhone(t *testing.T) {
	r, _ := setupServer(t)
	token := authToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"full_name": "Ana Silva",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "missing_required_fields" {
		t.Errorf("error code = %q", code)
	}
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	r, _ := setupServer(t)
	token := authToken(t, r)

	body := gin.H{
		"full_name": "Ana Silva",
		"email":     "ana@example.com",
		"phone":     "11999990000",
	}
	if w := doJSON(t, r, http.MethodPost, "/api/clients", token, body); w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", w.Code)
	}

	body["full_name"] = "Outra Ana"
	w := doJSON(t, r, http.MethodPost, "/api/clients", token, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "email_taken" {
		t.Errorf("error code = %q, want email_taken", code)
	}
}

func TestListClientsPaginated(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	for i := 0; i < 25; i++ {
		newClient(t, gdb, fmt.Sprintf("Cliente %02d", i))
	}

	w := doJSON(t, r, http.MethodGet, "/api/clients?page=2&limit=10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data       []models.Client `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	decode(t, w, &resp)

	if len(resp.Data) != 10 {
		t.Errorf("page size = %d, want 10", len(resp.Data))
	}
	if resp.Pagination.Total != 25 || resp.Pagination.Pages != 3 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestSearchClients(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	newClient(t, gdb, "Ana Silva")
	newClient(t, gdb, "Bia Costa")

	w := doJSON(t, r, http.MethodGet, "/api/clients?search=Silva", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data []models.Client `json:"data"`
	}
	decode(t, w, &resp)
	if len(resp.Data) != 1 || resp.Data[0].FullName != "Ana Silva" {
		t.Errorf("unexpected search result: %+v", resp.Data)
	}
}

func TestGetClientNotFound(t *testing.T) {
	r, _ := setupServer(t)
	token := authToken(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/clients/999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if code := errorCode(t, w); code != "client_not_found" {
		t.Errorf("error code = %q", code)
	}
}

func TestUpdateClientPartial(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/clients/%d", client.ID), token, gin.H{
		"address": "Rua das Flores, 100",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var updated models.Client
	decode(t, w, &updated)
	if updated.Address != "Rua das Flores, 100" {
		t.Errorf("address = %q", updated.Address)
	}
	// Campos ausentes ficam como estavam
	if updated.FullName != "Ana Silva" || updated.Phone != "11999990000" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteClientBlockedByAppointments(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	ap := models.Appointment{
		ClientID:        client.ID,
		ServiceID:       service.ID,
		AppointmentDate: "2026-03-10",
		AppointmentTime: "14:00",
		Status:          "scheduled",
		TotalPrice:      120,
	}
	if err := gdb.Create(&ap).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/clients/%d", client.ID), token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "client_has_appointments" {
		t.Errorf("error code = %q", code)
	}

	var count int64
	gdb.Model(&models.Client{}).Count(&count)
	if count != 1 {
		t.Error("client should not have been deleted")
	}
}

func TestDeleteClientWithoutAppointments(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/clients/%d", client.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	gdb.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Error("client should have been deleted")
	}
}

func TestClientHistory(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	for i, slot := range []struct{ date, time string }{
		{"2026-03-10", "14:00"},
		{"2026-03-20", "10:00"},
	} {
		ap := models.Appointment{
			ClientID:        client.ID,
			ServiceID:       service.ID,
			AppointmentDate: slot.date,
			AppointmentTime: slot.time,
			Status:          "scheduled",
			TotalPrice:      120,
		}
		if err := gdb.Create(&ap).Error; err != nil {
			t.Fatalf("failed to create appointment %d: %v", i, err)
		}
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/clients/%d/appointments", client.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Appointments []struct {
			AppointmentDate string `json:"appointment_date"`
			ServiceName     string `json:"service_name"`
		} `json:"appointments"`
	}
	decode(t, w, &resp)

	if len(resp.Appointments) != 2 {
		t.Fatalf("got %d appointments, want 2", len(resp.Appointments))
	}
	// Mais recente primeiro
	if resp.Appointments[0].AppointmentDate != "2026-03-20" {
		t.Errorf("first = %q, want 2026-03-20", resp.Appointments[0].AppointmentDate)
	}
	if resp.Appointments[0].ServiceName != "Massagem Relaxante" {
		t.Errorf("service name = %q", resp.Appointments[0].ServiceName)
	}
}
