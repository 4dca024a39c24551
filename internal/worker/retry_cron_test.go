package worker

import (
	"testing"
	"time"

	"agendasalon/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeRetryBackoff(t *testing.T) {
	assert.Equal(t, time.Minute, ComputeRetryBackoff(1))
	assert.Equal(t, 2*time.Minute, ComputeRetryBackoff(2))
	assert.Equal(t, 4*time.Minute, ComputeRetryBackoff(3))
	assert.Equal(t, 8*time.Minute, ComputeRetryBackoff(4))
	assert.Equal(t, 16*time.Minute, ComputeRetryBackoff(5))
	// Tope de 30 minutos de ahí en más.
	assert.Equal(t, 30*time.Minute, ComputeRetryBackoff(6))
	assert.Equal(t, 30*time.Minute, ComputeRetryBackoff(10))
}

func TestBuildFacturaPayload(t *testing.T) {
	pago := &model.Pago{
		ID:              uuid.New(),
		NumeroRecibo:    42,
		Metodo:          "debito",
		Subtotal:        decimal.NewFromInt(9000),
		CreditoGiftcard: decimal.NewFromInt(2000),
		CreditoSena:     decimal.NewFromInt(1000),
		Total:           decimal.NewFromInt(6000),
		Items: []model.PagoItem{{
			Descripcion:    "Corte",
			Cantidad:       1,
			PrecioUnitario: decimal.NewFromInt(9000),
			Subtotal:       decimal.NewFromInt(9000),
		}},
	}

	payload := BuildFacturaPayload(pago, "ana@example.com")
	assert.Equal(t, pago.ID.String(), payload.PagoID)
	assert.Equal(t, 42, payload.NumeroRecibo)
	assert.Equal(t, "ana@example.com", payload.ClienteEmail)
	assert.Equal(t, float64(9000), payload.Subtotal)
	assert.Equal(t, float64(3000), payload.Creditos)
	assert.Equal(t, float64(6000), payload.Total)
	assert.Len(t, payload.Items, 1)
	assert.Equal(t, "debito", payload.Metodo)
}
