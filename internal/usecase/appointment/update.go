package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/audit"
	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/models"
	"github.com/esteticafabiane/clinic-api/internal/timezone"
)

type UpdateAppointmentInput struct {
	ClientID  *uint
	ServiceID *uint

	Date *string
	Time *string

	Status       *string
	Observations *string
	TotalPrice   *float64

	UserID *uint
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute aplica atualização parcial: campos nil ficam como estão.
// Mudança de slot refaz a checagem de conflito ignorando o próprio id;
// mudança de status passa pela máquina de estados.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if in.ClientID != nil && *in.ClientID != ap.ClientID {
		if _, err := uc.repo.GetClientByID(ctx, *in.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("client_not_found")
			}
			return nil, err
		}
		ap.ClientID = *in.ClientID
	}

	if in.ServiceID != nil && *in.ServiceID != ap.ServiceID {
		if _, err := uc.repo.GetServiceByID(ctx, *in.ServiceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("service_not_found")
			}
			return nil, err
		}
		ap.ServiceID = *in.ServiceID
	}

	newDate := ap.AppointmentDate
	newTime := ap.AppointmentTime
	if in.Date != nil {
		newDate = *in.Date
	}
	if in.Time != nil {
		newTime = *in.Time
	}

	if newDate != ap.AppointmentDate || newTime != ap.AppointmentTime {
		slot, err := domain.ParseSlot(newDate, newTime)
		if err != nil {
			return nil, err
		}

		conflict, err := uc.repo.HasSlotConflict(ctx, slot, ap.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, httperr.ErrBusiness("slot_conflict")
		}

		ap.AppointmentDate = slot.Date
		ap.AppointmentTime = slot.Time
	}

	if in.Observations != nil {
		ap.Observations = *in.Observations
	}

	if in.TotalPrice != nil {
		if *in.TotalPrice <= 0 {
			return nil, httperr.ErrBusiness("invalid_price")
		}
		ap.TotalPrice = *in.TotalPrice
	}

	var statusChanged bool
	if in.Status != nil && *in.Status != ap.Status {
		now := timezone.Now()
		if err := domain.Transition(ap, domain.Status(*in.Status), now); err != nil {
			return nil, err
		}
		statusChanged = true
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	if statusChanged {
		uc.audit.Dispatch(audit.Event{
			UserID:   in.UserID,
			Action:   "appointment_" + ap.Status,
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
	}

	return uc.repo.GetByID(ctx, ap.ID)
}
