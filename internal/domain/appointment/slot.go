package appointment

import (
	"github.com/esteticafabiane/clinic-api/internal/httperr"
	"github.com/esteticafabiane/clinic-api/internal/timezone"
)

// Slot é o par (data, hora) que um agendamento ocupa. No máximo um
// agendamento não cancelado pode existir por slot.
type Slot struct {
	Date string
	Time string
}

func ParseSlot(date, timeStr string) (Slot, error) {
	if date == "" || timeStr == "" {
		return Slot{}, httperr.ErrBusiness("missing_date_or_time")
	}
	if _, err := timezone.ParseDate(date); err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_date")
	}
	if _, err := timezone.ParseTime(timeStr); err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_time")
	}
	return Slot{Date: date, Time: timeStr}, nil
}
