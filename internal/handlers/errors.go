package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/esteticafabiane/clinic-api/internal/httperr"
)

var businessMessages = map[string]string{
	"missing_required_fields": "Campos obrigatórios ausentes",
	"missing_date_or_time":    "Data e horário são obrigatórios",
	"invalid_date":            "Data inválida, use o formato YYYY-MM-DD",
	"invalid_time":            "Horário inválido, use o formato HH:MM",
	"invalid_price":           "Preço deve ser maior que zero",
	"invalid_status":          "Status inválido",
	"invalid_state":           "Transição de status não permitida",
	"invalid_quantity":        "Quantidade deve ser um número não negativo",
	"invalid_operation":       "Operação de estoque inválida, use set, add ou subtract",
	"invalid_email":           "E-mail inválido",
	"email_taken":             "E-mail já cadastrado",
	"slot_conflict":           "Já existe um agendamento para este horário",
	"client_not_found":        "Cliente não encontrado",
	"service_not_found":       "Serviço não encontrado",
	"service_inactive":        "Serviço inativo não pode ser agendado",
	"product_not_found":       "Produto não encontrado",
	"appointment_not_found":   "Agendamento não encontrado",
	"client_has_appointments": "Cliente possui agendamentos e não pode ser removido",
	"invalid_credentials":     "E-mail ou senha incorretos",
}

func messageFor(code string) string {
	if msg, ok := businessMessages[code]; ok {
		return msg
	}
	return code
}

// writeBusiness traduz erros de negócio para a resposta HTTP. Códigos
// listados em notFoundCodes viram 404; os demais viram 400. Qualquer
// outro erro é tratado como falha interna.
func writeBusiness(c *gin.Context, err error, notFoundCodes ...string) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Erro interno do servidor")
		return
	}

	for _, nf := range notFoundCodes {
		if code == nf {
			httperr.NotFound(c, code, messageFor(code))
			return
		}
	}

	httperr.BadRequest(c, code, messageFor(code))
}
