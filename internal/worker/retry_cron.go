package worker

// retry_cron.go
// Background goroutine that periodically re-attempts facturador calls for
// pagos stuck in estado_factura='pendiente' with a next_retry_at in the past.
// Uses the Circuit Breaker to avoid hammering a downed provider.

import (
	"context"
	"fmt"
	"math"
	"time"

	"agendasalon/internal/infra"
	"agendasalon/internal/model"
	"agendasalon/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxFacturaRetries attempts before the Pago is marked error and the
	// job lands in the DLQ for manual inspection.
	MaxFacturaRetries = 5
)

// ComputeRetryBackoff returns the exponential delay before the next attempt:
// 1m, 2m, 4m, 8m… capped at 30m.
func ComputeRetryBackoff(retryCount int) time.Duration {
	d := time.Duration(math.Pow(2, float64(retryCount-1))) * time.Minute
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	PagoRepo   repository.PagoRepository
	Facturador infra.Facturador
	CB         *infra.CircuitBreaker
	RDB        *redis.Client
	Timeout    time.Duration
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending pagos, and re-attempts facturador calls through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed provider
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	pagos, err := cfg.PagoRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(pagos) == 0 {
		return
	}

	log.Info().Int("count", len(pagos)).Msg("retry_cron: processing pending pagos")

	for i := range pagos {
		pago := &pagos[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		payload := BuildFacturaPayload(pago, "")

		var facturaResp *infra.FacturaResponse
		cbErr := cfg.CB.Execute(func() error {
			callCtx := ctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}
			resp, err := cfg.Facturador.Emitir(callCtx, payload)
			if err != nil {
				return err
			}
			facturaResp = resp
			return nil
		})

		if cbErr != nil {
			pago.RetryCount++
			errMsg := cbErr.Error()
			pago.LastError = &errMsg
			nextRetry := time.Now().Add(ComputeRetryBackoff(pago.RetryCount))
			pago.NextRetryAt = &nextRetry

			if pago.RetryCount >= MaxFacturaRetries {
				pago.EstadoFactura = model.FacturaError
				pago.NextRetryAt = nil
				log.Error().
					Str("pago_id", pago.ID.String()).
					Int("retries", pago.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to error/DLQ")

				dlqPayload := fmt.Sprintf(`{"pago_id":"%s","numero_recibo":%d}`, pago.ID, pago.NumeroRecibo)
				SendToDLQ(ctx, cfg.RDB, QueueRecibos, "factura", []byte(dlqPayload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxFacturaRetries, errMsg),
					pago.RetryCount)
			} else {
				log.Warn().
					Str("pago_id", pago.ID.String()).
					Int("retry_count", pago.RetryCount).
					Time("next_retry_at", *pago.NextRetryAt).
					Msg("retry_cron: facturador retry failed, scheduled next attempt")
			}

			_ = cfg.PagoRepo.Update(ctx, pago)
			continue
		}

		switch {
		case facturaResp != nil && facturaResp.Resultado == "A":
			pago.EstadoFactura = model.FacturaEmitida
			id := facturaResp.FacturaID
			pago.FacturaID = &id
			pago.NextRetryAt = nil
			pago.LastError = nil
			_ = cfg.PagoRepo.Update(ctx, pago)

			log.Info().
				Str("factura_id", id).
				Str("pago_id", pago.ID.String()).
				Int("total_retries", pago.RetryCount).
				Msg("retry_cron: factura emitted after retry")
		case facturaResp != nil:
			pago.EstadoFactura = model.FacturaError
			msg := fmt.Sprintf("facturador rechazó: resultado=%s", facturaResp.Resultado)
			pago.LastError = &msg
			pago.NextRetryAt = nil
			_ = cfg.PagoRepo.Update(ctx, pago)
			log.Warn().
				Str("resultado", facturaResp.Resultado).
				Str("pago_id", pago.ID.String()).
				Msg("retry_cron: facturador rejected on retry")
		}
	}
}

// BuildFacturaPayload maps a settled Pago to the provider's wire format.
// Shared between the synchronous attempt at close-out and the retry cron.
func BuildFacturaPayload(pago *model.Pago, clienteEmail string) infra.FacturaPayload {
	items := make([]infra.FacturaItem, 0, len(pago.Items))
	for _, it := range pago.Items {
		items = append(items, infra.FacturaItem{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario.InexactFloat64(),
			Subtotal:       it.Subtotal.InexactFloat64(),
		})
	}
	return infra.FacturaPayload{
		PagoID:       pago.ID.String(),
		NumeroRecibo: pago.NumeroRecibo,
		ClienteEmail: clienteEmail,
		Items:        items,
		Subtotal:     pago.Subtotal.InexactFloat64(),
		Creditos:     pago.CreditoGiftcard.Add(pago.CreditoSena).InexactFloat64(),
		Total:        pago.Total.InexactFloat64(),
		Metodo:       pago.Metodo,
	}
}
