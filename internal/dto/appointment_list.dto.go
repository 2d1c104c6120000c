package dto

import "github.com/esteticafabiane/clinic-api/internal/models"

type AppointmentListDTO struct {
	ID              uint    `json:"id"`
	AppointmentDate string  `json:"appointment_date"`
	AppointmentTime string  `json:"appointment_time"`
	Status          string  `json:"status"`
	Observations    string  `json:"observations"`
	TotalPrice      float64 `json:"total_price"`

	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`

	ServiceName string `json:"service_name"`
	DurationMin int    `json:"duration_minutes"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:              ap.ID,
		AppointmentDate: ap.AppointmentDate,
		AppointmentTime: ap.AppointmentTime,
		Status:          ap.Status,
		Observations:    ap.Observations,
		TotalPrice:      ap.TotalPrice,
		ClientName:      ap.Client.FullName,
		ClientPhone:     ap.Client.Phone,
		ServiceName:     ap.Service.Name,
		DurationMin:     ap.Service.DurationMin,
	}
}

func NewAppointmentListDTOs(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAppointmentListDTO(ap))
	}
	return out
}
