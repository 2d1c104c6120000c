package db

import (
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/models"
)

// Catálogo fixo da clínica, carregado uma única vez no provisionamento.
var serviceCatalog = []models.Service{
	{
		Name:        "Limpeza de Pele",
		Category:    "Estética Facial",
		Price:       120.00,
		DurationMin: 60,
		Description: "Limpeza profunda da pele facial",
	},
	{
		Name:        "Massagem Relaxante",
		Category:    "Massagem",
		Price:       120.00,
		DurationMin: 60,
		Description: "Massagem relaxante para alívio do stress",
	},
	{
		Name:        "Pós Operatório Domiciliar 10 sessões com laser",
		Category:    "Pós Operatório",
		Price:       1300.00,
		DurationMin: 90,
		Description: "Pacote completo de 10 sessões pós operatório com laser domiciliar",
	},
	{
		Name:        "Pós Operatório com Kinesio",
		Category:    "Pós Operatório",
		Price:       1500.00,
		DurationMin: 120,
		Description: "Tratamento pós operatório com aplicação de kinesio",
	},
	{
		Name:        "Pacote Simples - 4 sessões de Massagem",
		Category:    "Pacotes",
		Price:       450.00,
		DurationMin: 240,
		Description: "Pacote com 4 sessões de massagem. Validade: 60 dias",
	},
	{
		Name:        "Pacote Premium - 10 sessões de Massagem",
		Category:    "Pacotes",
		Price:       800.00,
		DurationMin: 600,
		Description: "Pacote premium com 10 sessões de massagem. Validade: 60 dias",
	},
}

// SeedServices é idempotente: só insere serviços do catálogo que ainda
// não existem, identificados pelo nome.
func SeedServices(db *gorm.DB) error {
	for _, svc := range serviceCatalog {
		var count int64
		if err := db.Model(&models.Service{}).
			Where("name = ?", svc.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		svc.Status = "active"
		if err := db.Create(&svc).Error; err != nil {
			return err
		}
	}
	return nil
}
