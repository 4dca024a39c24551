package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibos: generates the PDF recibo and
// mails it to the cliente. Settlement enqueues the job after commit, so a
// PDF or SMTP failure never affects the Pago itself.

import (
	"context"
	"encoding/json"

	"agendasalon/internal/infra"
	"agendasalon/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibos.
type ReciboJobPayload struct {
	PagoID        string `json:"pago_id"`
	ClienteNombre string `json:"cliente_nombre"`
	ClienteEmail  string `json:"cliente_email"`
}

type ReciboWorker struct {
	pagos       repository.PagoRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewReciboWorker(pagos repository.PagoRepository, mailer *infra.Mailer, storagePath string) *ReciboWorker {
	return &ReciboWorker{pagos: pagos, mailer: mailer, storagePath: storagePath}
}

// Process generates the PDF, records its path on the Pago, and sends it to
// the cliente when an email was provided.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}
	pagoID, err := uuid.Parse(payload.PagoID)
	if err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: invalid pago_id")
		return
	}

	pago, err := w.pagos.FindByID(ctx, pagoID)
	if err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: pago not found")
		return
	}

	pdfPath, err := infra.GenerateReciboPDF(pago, payload.ClienteNombre, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: PDF generation failed")
		return
	}
	pago.PDFPath = &pdfPath
	if err := w.pagos.Update(ctx, pago); err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: failed to record pdf_path")
	}

	if payload.ClienteEmail == "" {
		log.Info().Int("recibo", pago.NumeroRecibo).Msg("recibo_worker: PDF generated, no email on file")
		return
	}
	if w.mailer == nil {
		return
	}
	if err := w.mailer.Send(payload.ClienteEmail, "Tu recibo de AgendaSalon", "Adjuntamos el recibo de tu atención. ¡Gracias por tu visita!", pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ClienteEmail).Msg("recibo_worker: failed to send email")
		return
	}
	log.Info().Int("recibo", pago.NumeroRecibo).Str("to", payload.ClienteEmail).Msg("recibo_worker: recibo sent")
}
