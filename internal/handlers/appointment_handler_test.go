package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/esteticafabiane/clinic-api/internal/models"
)

func bookingBody(clientID, serviceID uint, date, timeStr string) gin.H {
	return gin.H{
		"client_id":        clientID,
		"service_id":       serviceID,
		"appointment_date": date,
		"appointment_time": timeStr,
	}
}

func TestCreateAppointment(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(client.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var ap models.Appointment
	decode(t, w, &ap)

	if ap.Status != "scheduled" {
		t.Errorf("status = %q, want scheduled", ap.Status)
	}
	// Preço congelado a partir do serviço
	if ap.TotalPrice != 120 {
		t.Errorf("total_price = %v, want 120", ap.TotalPrice)
	}
	if ap.Client.FullName != "Ana Silva" {
		t.Errorf("client not preloaded: %+v", ap.Client)
	}
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	ana := newClient(t, gdb, "Ana Silva")
	bia := newClient(t, gdb, "Bia Costa")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(ana.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(bia.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second booking status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "slot_conflict" {
		t.Errorf("error code = %q, want slot_conflict", code)
	}

	// Outro horário no mesmo dia continua livre
	w = doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(bia.ID, service.ID, "2026-03-10", "15:00"))
	if w.Code != http.StatusCreated {
		t.Errorf("different time status = %d, want 201", w.Code)
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	ana := newClient(t, gdb, "Ana Silva")
	bia := newClient(t, gdb, "Bia Costa")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(ana.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("booking status = %d", w.Code)
	}
	var ap models.Appointment
	decode(t, w, &ap)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/appointments/%d/cancel", ap.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body %s", w.Code, w.Body.String())
	}

	// O cancelamento é soft: a linha continua lá
	var count int64
	gdb.Model(&models.Appointment{}).Count(&count)
	if count != 1 {
		t.Fatalf("appointment rows = %d, want 1", count)
	}

	w = doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(bia.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("rebooking freed slot status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestCreateAppointmentUnknownRefs(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(999, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown client status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "client_not_found" {
		t.Errorf("error code = %q, want client_not_found", code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(client.ID, 999, "2026-03-10", "14:00"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown service status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "service_not_found" {
		t.Errorf("error code = %q, want service_not_found", code)
	}
}

func TestCreateAppointmentInactiveService(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)
	gdb.Model(&service).Update("status", "inactive")

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(client.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "service_inactive" {
		t.Errorf("error code = %q, want service_inactive", code)
	}
}

func TestCreateAppointmentInvalidSlot(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	cases := []struct {
		name string
		date string
		time string
		code string
	}{
		{"sem data", "", "14:00", "missing_date_or_time"},
		{"data invalida", "10/03/2026", "14:00", "invalid_date"},
		{"hora invalida", "2026-03-10", "25:99", "invalid_time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
				bookingBody(client.ID, service.ID, tc.date, tc.time))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if code := errorCode(t, w); code != tc.code {
				t.Errorf("error code = %q, want %q", code, tc.code)
			}
		})
	}
}

func TestAppointmentStatusFlow(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(client.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("booking status = %d", w.Code)
	}
	var ap models.Appointment
	decode(t, w, &ap)
	path := fmt.Sprintf("/api/appointments/%d", ap.ID)

	// scheduled → completed não é permitido
	w = doJSON(t, r, http.MethodPut, path, token, gin.H{"status": "completed"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("skip confirm status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "invalid_state" {
		t.Errorf("error code = %q, want invalid_state", code)
	}

	w = doJSON(t, r, http.MethodPut, path, token, gin.H{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, path, token, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &ap)
	if ap.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	// Estado terminal não sai mais do lugar
	w = doJSON(t, r, http.MethodPut, path, token, gin.H{"status": "confirmed"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("terminal transition status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("%s/cancel", path), token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("cancel completed status = %d, want 400", w.Code)
	}
}

func TestUpdateAppointmentRescheduleConflict(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(client.ID, service.ID, "2026-03-10", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", w.Code)
	}
	var first models.Appointment
	decode(t, w, &first)

	w = doJSON(t, r, http.MethodPost, "/api/appointments", token,
		bookingBody(client.ID, service.ID, "2026-03-10", "15:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("second booking status = %d", w.Code)
	}
	var second models.Appointment
	decode(t, w, &second)

	// Mover para cima do primeiro falha
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/appointments/%d", second.ID), token, gin.H{
		"appointment_time": "14:00",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != "slot_conflict" {
		t.Errorf("error code = %q, want slot_conflict", code)
	}

	// Reagendar para horário livre funciona; o próprio slot não conflita
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/appointments/%d", second.ID), token, gin.H{
		"appointment_time": "16:00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	r, _ := setupServer(t)
	token := authToken(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/appointments/999", token, gin.H{
		"status": "confirmed",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListAppointmentsFilters(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	for _, slot := range []struct{ date, time, status string }{
		{"2026-03-10", "14:00", "scheduled"},
		{"2026-03-10", "15:00", "cancelled"},
		{"2026-03-11", "10:00", "scheduled"},
	} {
		ap := models.Appointment{
			ClientID:        client.ID,
			ServiceID:       service.ID,
			AppointmentDate: slot.date,
			AppointmentTime: slot.time,
			Status:          slot.status,
			TotalPrice:      120,
		}
		if err := gdb.Create(&ap).Error; err != nil {
			t.Fatalf("failed to create appointment: %v", err)
		}
	}

	var resp struct {
		Data []struct {
			Status string `json:"status"`
		} `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}

	w := doJSON(t, r, http.MethodGet, "/api/appointments?date=2026-03-10", token, nil)
	decode(t, w, &resp)
	if resp.Pagination.Total != 2 {
		t.Errorf("date filter total = %d, want 2", resp.Pagination.Total)
	}

	w = doJSON(t, r, http.MethodGet, "/api/appointments?status=cancelled", token, nil)
	decode(t, w, &resp)
	if resp.Pagination.Total != 1 || resp.Data[0].Status != "cancelled" {
		t.Errorf("status filter: %+v", resp)
	}
}

func TestAgendaForDayExcludesCancelled(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	for _, slot := range []struct{ time, status string }{
		{"15:00", "scheduled"},
		{"09:00", "confirmed"},
		{"11:00", "cancelled"},
	} {
		ap := models.Appointment{
			ClientID:        client.ID,
			ServiceID:       service.ID,
			AppointmentDate: "2026-03-10",
			AppointmentTime: slot.time,
			Status:          slot.status,
			TotalPrice:      120,
		}
		if err := gdb.Create(&ap).Error; err != nil {
			t.Fatalf("failed to create appointment: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/appointments/agenda/2026-03-10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Appointments []struct {
			AppointmentTime string `json:"appointment_time"`
		} `json:"appointments"`
	}
	decode(t, w, &resp)

	if len(resp.Appointments) != 2 {
		t.Fatalf("got %d appointments, want 2", len(resp.Appointments))
	}
	// Ordem de horário
	if resp.Appointments[0].AppointmentTime != "09:00" {
		t.Errorf("first time = %q, want 09:00", resp.Appointments[0].AppointmentTime)
	}
}

func TestAgendaForDayInvalidDate(t *testing.T) {
	r, _ := setupServer(t)
	token := authToken(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/appointments/agenda/notadate", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAgendaForMonth(t *testing.T) {
	r, gdb := setupServer(t)
	token := authToken(t, r)

	client := newClient(t, gdb, "Ana Silva")
	service := newService(t, gdb, "Massagem Relaxante", 120)

	for _, date := range []string{"2026-03-05", "2026-03-28", "2026-04-01"} {
		ap := models.Appointment{
			ClientID:        client.ID,
			ServiceID:       service.ID,
			AppointmentDate: date,
			AppointmentTime: "10:00",
			Status:          "scheduled",
			TotalPrice:      120,
		}
		if err := gdb.Create(&ap).Error; err != nil {
			t.Fatalf("failed to create appointment: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/appointments/month/2026/3", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Appointments []struct {
			AppointmentDate string `json:"appointment_date"`
		} `json:"appointments"`
	}
	decode(t, w, &resp)

	if len(resp.Appointments) != 2 {
		t.Fatalf("got %d appointments, want 2", len(resp.Appointments))
	}
}
