package product

import "github.com/esteticafabiane/clinic-api/internal/httperr"

// Status derivado de estoque. Calculado na leitura, nunca persistido.
const (
	StockOut = "sem_estoque"
	StockLow = "estoque_baixo"
	StockOK  = "estoque_ok"
)

func StockStatus(quantity, minAlert int) string {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= minAlert:
		return StockLow
	default:
		return StockOK
	}
}

// Deficit é quanto falta para sair do alerta de estoque baixo.
func Deficit(quantity, minAlert int) int {
	return minAlert - quantity
}

type StockOperation string

const (
	OpSet      StockOperation = "set"
	OpAdd      StockOperation = "add"
	OpSubtract StockOperation = "subtract"
)

// ApplyStock aplica a operação sobre a quantidade atual. Subtração
// nunca deixa o estoque negativo.
func ApplyStock(current, quantity int, op StockOperation) (int, error) {
	if quantity < 0 {
		return 0, httperr.ErrBusiness("invalid_quantity")
	}

	switch op {
	case OpSet:
		return quantity, nil
	case OpAdd:
		return current + quantity, nil
	case OpSubtract:
		next := current - quantity
		if next < 0 {
			next = 0
		}
		return next, nil
	default:
		return 0, httperr.ErrBusiness("invalid_operation")
	}
}
