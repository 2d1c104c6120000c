package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/audit"
	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  uint
	ServiceID uint

	Date string
	Time string

	Observations string

	// Preço opcional; zero significa "usar o preço do serviço".
	TotalPrice float64

	UserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute valida referências de forma estrita: cliente ou serviço
// desconhecido rejeita a reserva, sem preço padrão de fallback.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.ClientID == 0 || in.ServiceID == 0 {
		return nil, httperr.ErrBusiness("missing_required_fields")
	}

	slot, err := domain.ParseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetClientByID(ctx, in.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		return nil, err
	}

	service, err := uc.repo.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if service.Status != "active" {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	// Preço congelado na reserva: alterações futuras no serviço não
	// mudam o histórico de cobrança.
	price := in.TotalPrice
	if price <= 0 {
		price = service.Price
	}

	ap := &models.Appointment{
		ClientID:        in.ClientID,
		ServiceID:       in.ServiceID,
		AppointmentDate: slot.Date,
		AppointmentTime: slot.Time,
		Status:          string(domain.InitialStatus()),
		Observations:    in.Observations,
		TotalPrice:      price,
	}

	if err := uc.repo.CreateScheduled(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "slot_conflict") {
			uc.audit.Dispatch(audit.Event{
				UserID: in.UserID,
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"date": slot.Date,
					"time": slot.Time,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return uc.repo.GetByID(ctx, ap.ID)
}
