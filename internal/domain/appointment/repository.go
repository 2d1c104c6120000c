package appointment

import (
	"context"

	"github.com/esteticafabiane/clinic-api/internal/models"
)

type ListFilter struct {
	Date      string
	Status    string
	ClientID  uint
	ServiceID uint
	Page      int
	Limit     int
}

type Repository interface {
	// -------- Referenced entities --------
	GetClientByID(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	GetServiceByID(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointment (create / conflict) --------

	// CreateScheduled grava o agendamento dentro de uma transação que
	// revalida o slot; a corrida residual é fechada pelo índice único
	// parcial em (appointment_date, appointment_time).
	CreateScheduled(
		ctx context.Context,
		ap *models.Appointment,
	) error

	HasSlotConflict(
		ctx context.Context,
		slot Slot,
		excludeID uint,
	) (bool, error)

	// -------- Appointment (read / state change) --------
	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Projections --------
	List(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, int64, error)

	ListForDay(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	ListUpcomingForDay(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	ListForMonth(
		ctx context.Context,
		year int,
		month int,
	) ([]models.Appointment, error)
}
