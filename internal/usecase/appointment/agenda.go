package appointment

import (
	"context"

	domain "github.com/esteticafabiane/clinic-api/internal/domain/appointment"
	"github.com/esteticafabiane/clinic-api/internal/dto"
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/timezone"
)

type Agenda struct {
	repo domain.Repository
}

func NewAgenda(repo domain.Repository) *Agenda {
	return &Agenda{repo: repo}
}

// ForDay lista os agendamentos não cancelados de um dia, em ordem de
// horário.
func (uc *Agenda) ForDay(
	ctx context.Context,
	date string,
) ([]dto.AppointmentListDTO, error) {

	if _, err := timezone.ParseDate(date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	aps, err := uc.repo.ListForDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentListDTOs(aps), nil
}

// UpcomingToday lista os agendamentos de hoje ainda pendentes
// (agendado ou confirmado).
func (uc *Agenda) UpcomingToday(
	ctx context.Context,
) ([]dto.AppointmentListDTO, error) {

	aps, err := uc.repo.ListUpcomingForDay(ctx, timezone.Today())
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentListDTOs(aps), nil
}

func (uc *Agenda) ForMonth(
	ctx context.Context,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	aps, err := uc.repo.ListForMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentListDTOs(aps), nil
}
