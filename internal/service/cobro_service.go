package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/infra"
	"agendasalon/internal/model"
	"agendasalon/internal/repository"
	"agendasalon/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CobroService settles turnos: one Pago per close-out, commissions resolved
// per line, credits applied, and the factura attempted without ever blocking
// the settlement on the external provider.
type CobroService interface {
	CerrarTurno(ctx context.Context, req dto.CerrarTurnoRequest) (*dto.CobroResponse, error)
	CerrarGrupo(ctx context.Context, req dto.CerrarGrupoRequest) (*dto.CobroResponse, error)
	ObtenerPago(ctx context.Context, id uuid.UUID) (*model.Pago, error)
}

type cobroService struct {
	turnos     repository.TurnoRepository
	servicios  repository.ServicioRepository
	productos  repository.ProductoRepository
	empleados  repository.EmpleadoRepository
	senas      repository.SenaRepository
	giftcards  repository.GiftCardRepository
	pagos      repository.PagoRepository
	facturador infra.Facturador
	cb         *infra.CircuitBreaker
	dispatcher *worker.Dispatcher
	// facturadorTimeout bounds the synchronous invoice attempt at close-out.
	facturadorTimeout time.Duration
	// umbralPenalidad: minimum server-side lateness (minutes) before a
	// manual penalidad is accepted.
	umbralPenalidad int
	now             func() time.Time
}

func NewCobroService(
	turnos repository.TurnoRepository,
	servicios repository.ServicioRepository,
	productos repository.ProductoRepository,
	empleados repository.EmpleadoRepository,
	senas repository.SenaRepository,
	giftcards repository.GiftCardRepository,
	pagos repository.PagoRepository,
	facturador infra.Facturador,
	cb *infra.CircuitBreaker,
	dispatcher *worker.Dispatcher,
	facturadorTimeout time.Duration,
	umbralPenalidadMinutos int,
) CobroService {
	return &cobroService{
		turnos:            turnos,
		servicios:         servicios,
		productos:         productos,
		empleados:         empleados,
		senas:             senas,
		giftcards:         giftcards,
		pagos:             pagos,
		facturador:        facturador,
		cb:                cb,
		dispatcher:        dispatcher,
		facturadorTimeout: facturadorTimeout,
		umbralPenalidad:   umbralPenalidadMinutos,
		now:               time.Now,
	}
}

// lineaCobro is one resolved settlement line before persistence.
type lineaCobro struct {
	tipo           string
	referenciaID   *uuid.UUID
	descripcion    string
	cantidad       int
	precioUnitario decimal.Decimal
	subtotal       decimal.Decimal
	// servicioID / empleadoID drive giftcard matching and commission
	// resolution; zero for product and penalidad lines.
	servicioID uuid.UUID
	empleadoID uuid.UUID
	comision   decimal.Decimal
}

// ── CerrarTurno ──────────────────────────────────────────────────────────────

func (s *cobroService) CerrarTurno(ctx context.Context, req dto.CerrarTurnoRequest) (*dto.CobroResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}
	t, err := s.turnos.FindByID(ctx, turnoID)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if t.Estado != model.TurnoEnCurso {
		return nil, rechazo(ValidacionEstadoInvalido,
			fmt.Sprintf("solo se cobran turnos en curso (estado actual: %s)", t.Estado))
	}

	miembro := dto.MiembroGrupoRequest{
		TurnoID:         req.TurnoID,
		PrecioFinal:     req.PrecioFinal,
		ServicioFinalID: req.ServicioFinalID,
		EmpleadoFinalID: req.EmpleadoFinalID,
	}
	return s.cerrar(ctx, []*model.Turno{t}, []dto.MiembroGrupoRequest{miembro}, cierreComun{
		itemsServicios: req.ItemsServicios,
		itemsProductos: req.ItemsProductos,
		penalidad:      req.Penalidad,
		senaID:         req.SenaID,
		giftcardID:     req.GiftCardID,
		metodo:         req.Metodo,
		generarFactura: req.GenerarFactura,
		clienteEmail:   req.ClienteEmail,
		observaciones:  req.Observaciones,
	})
}

// CerrarGrupo settles every non-cancelled member of the grupo in one Pago.
// All members must be en_curso; a single pendiente member aborts the close.
func (s *cobroService) CerrarGrupo(ctx context.Context, req dto.CerrarGrupoRequest) (*dto.CobroResponse, error) {
	grupoID, err := uuid.Parse(req.GrupoID)
	if err != nil {
		return nil, fmt.Errorf("grupo_id inválido: %w", err)
	}
	todos, err := s.turnos.FindByGrupoID(ctx, grupoID)
	if err != nil {
		return nil, err
	}

	miembros := make([]*model.Turno, 0, len(todos))
	for i := range todos {
		if todos[i].Estado == model.TurnoCancelado {
			continue
		}
		miembros = append(miembros, &todos[i])
	}
	if len(miembros) == 0 {
		return nil, errors.New("el grupo no tiene turnos cobrables")
	}
	for _, t := range miembros {
		if t.Estado != model.TurnoEnCurso {
			return nil, rechazo(ValidacionEstadoInvalido,
				fmt.Sprintf("el turno %s del grupo no está en curso (estado: %s)", t.ID, t.Estado))
		}
	}

	// Pair each member with its close-out override; members absent from the
	// request settle at list price.
	porTurno := make(map[string]dto.MiembroGrupoRequest, len(req.Miembros))
	for _, m := range req.Miembros {
		porTurno[m.TurnoID] = m
	}
	overrides := make([]dto.MiembroGrupoRequest, 0, len(miembros))
	for _, t := range miembros {
		if m, ok := porTurno[t.ID.String()]; ok {
			overrides = append(overrides, m)
		} else {
			overrides = append(overrides, dto.MiembroGrupoRequest{TurnoID: t.ID.String()})
		}
	}

	return s.cerrar(ctx, miembros, overrides, cierreComun{
		grupoID:        &grupoID,
		itemsServicios: req.ItemsServicios,
		itemsProductos: req.ItemsProductos,
		penalidad:      req.Penalidad,
		senaID:         req.SenaID,
		giftcardID:     req.GiftCardID,
		metodo:         req.Metodo,
		generarFactura: req.GenerarFactura,
		clienteEmail:   req.ClienteEmail,
		observaciones:  req.Observaciones,
	})
}

// ObtenerPago returns a settled Pago, used by the recibo download endpoint.
func (s *cobroService) ObtenerPago(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	return s.pagos.FindByID(ctx, id)
}

// cierreComun carries the parts of a close-out shared by single and grupo.
type cierreComun struct {
	grupoID        *uuid.UUID
	itemsServicios []dto.ItemServicioRequest
	itemsProductos []dto.ItemProductoRequest
	penalidad      *decimal.Decimal
	senaID         *string
	giftcardID     *string
	metodo         string
	generarFactura bool
	clienteEmail   *string
	observaciones  *string
}

func (s *cobroService) cerrar(ctx context.Context, turnos []*model.Turno, overrides []dto.MiembroGrupoRequest, com cierreComun) (*dto.CobroResponse, error) {
	lineas, err := s.resolverLineasPrincipales(ctx, turnos, overrides)
	if err != nil {
		return nil, err
	}
	extras, err := s.resolverExtras(ctx, turnos[0].EmpleadoEfectivo(), com.itemsServicios, com.itemsProductos)
	if err != nil {
		return nil, err
	}
	lineas = append(lineas, extras...)

	penalidad := decimal.Zero
	if com.penalidad != nil && com.penalidad.IsNegative() {
		return nil, errors.New("la penalidad no puede ser negativa")
	}
	if com.penalidad != nil && com.penalidad.IsPositive() {
		maxTardanza := 0
		for _, t := range turnos {
			if t.MinutosTardanza > maxTardanza {
				maxTardanza = t.MinutosTardanza
			}
		}
		if maxTardanza < s.umbralPenalidad {
			return nil, rechazo(ValidacionEstadoInvalido,
				fmt.Sprintf("no corresponde penalidad: la tardanza registrada (%d min) no alcanza el umbral de %d min", maxTardanza, s.umbralPenalidad))
		}
		penalidad = *com.penalidad
		lineas = append(lineas, lineaCobro{
			tipo:           model.ItemPenalidad,
			descripcion:    fmt.Sprintf("Penalidad por tardanza (%d min)", maxTardanza),
			cantidad:       1,
			precioUnitario: penalidad,
			subtotal:       penalidad,
		})
	}

	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.subtotal)
	}
	if subtotal.IsNegative() {
		// Prices and quantities are validated non-negative upstream; a
		// negative subtotal means corrupted input reached this far.
		return nil, fmt.Errorf("subtotal negativo (%s): cobro abortado", subtotal)
	}

	creditos, err := s.resolverCreditos(ctx, turnos[0].ClienteID, lineas, subtotal, com.senaID, com.giftcardID)
	if err != nil {
		return nil, err
	}

	total := subtotal.Sub(creditos.giftcard).Sub(creditos.sena)
	if total.IsNegative() {
		total = decimal.Zero
	}

	pago := &model.Pago{
		Metodo:          com.metodo,
		Subtotal:        subtotal,
		CreditoGiftcard: creditos.giftcard,
		CreditoSena:     creditos.sena,
		Penalidad:       penalidad,
		Total:           total,
		EstadoFactura:   model.FacturaNinguna,
		Observaciones:   com.observaciones,
	}
	if com.grupoID != nil {
		pago.GrupoID = com.grupoID
	} else {
		pago.TurnoID = &turnos[0].ID
	}
	if creditos.giftcardID != nil {
		pago.GiftCardID = creditos.giftcardID
	}
	if creditos.senaID != nil {
		pago.SenaID = creditos.senaID
	}

	txErr := runTx(ctx, s.pagos.DB(), func(tx *gorm.DB) error {
		numero, err := s.pagos.NextReciboNumber(ctx, tx)
		if err != nil {
			return fmt.Errorf("numero de recibo: %w", err)
		}
		pago.NumeroRecibo = numero
		pago.Items = make([]model.PagoItem, 0, len(lineas))
		for _, l := range lineas {
			item := model.PagoItem{
				Tipo:           l.tipo,
				ReferenciaID:   l.referenciaID,
				Descripcion:    l.descripcion,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precioUnitario,
				Subtotal:       l.subtotal,
				ComisionMonto:  l.comision,
			}
			if l.empleadoID != uuid.Nil {
				eid := l.empleadoID
				item.ComisionEmpleadoID = &eid
			}
			pago.Items = append(pago.Items, item)
		}
		if err := s.pagos.CreateTx(ctx, tx, pago); err != nil {
			return err
		}

		for i, t := range turnos {
			t.Estado = model.TurnoCompletado
			t.Penalidad = decimal.Zero
			if i == 0 {
				t.Penalidad = penalidad
			}
			if err := s.turnos.UpdateTx(tx, t); err != nil {
				return err
			}
		}

		if creditos.senaID != nil {
			if err := s.senas.MarcarAplicadaTx(tx, *creditos.senaID, pago.ID); err != nil {
				return err
			}
		}
		if creditos.giftcardID != nil {
			if err := s.giftcards.ConsumirUnidadesTx(tx, *creditos.giftcardID, creditos.unidades, creditos.agotada); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.CobroResponse{
		Pago:   pagoToResponse(pago),
		Turnos: make([]dto.TurnoResponse, 0, len(turnos)),
	}
	for _, t := range turnos {
		resp.Turnos = append(resp.Turnos, turnoConNombres(t))
	}

	// The settlement is committed; from here the factura can only degrade
	// to pendiente, never roll anything back. A fully-credited cobro has
	// nothing to invoice: no fiscal document is emitted for $0.
	if com.generarFactura && total.IsPositive() {
		s.emitirFactura(ctx, pago, com.clienteEmail, resp)
	}

	s.despacharRecibo(ctx, turnos[0], pago, com.clienteEmail)
	return resp, nil
}

// resolverLineasPrincipales builds the main line for each turno being closed,
// applying close-out reassignments and the per-member final price.
func (s *cobroService) resolverLineasPrincipales(ctx context.Context, turnos []*model.Turno, overrides []dto.MiembroGrupoRequest) ([]lineaCobro, error) {
	lineas := make([]lineaCobro, 0, len(turnos))
	for i, t := range turnos {
		ov := overrides[i]
		if ov.ServicioFinalID != nil {
			sid, err := uuid.Parse(*ov.ServicioFinalID)
			if err != nil {
				return nil, fmt.Errorf("servicio_final_id inválido: %w", err)
			}
			t.ServicioFinalID = &sid
		}
		if ov.EmpleadoFinalID != nil {
			eid, err := uuid.Parse(*ov.EmpleadoFinalID)
			if err != nil {
				return nil, fmt.Errorf("empleado_final_id inválido: %w", err)
			}
			if _, err := s.empleados.FindByID(ctx, eid); err != nil {
				return nil, fmt.Errorf("empleado %s no encontrado", eid)
			}
			t.EmpleadoFinalID = &eid
		}

		svc, err := s.servicios.FindByID(ctx, t.ServicioEfectivo())
		if err != nil {
			return nil, fmt.Errorf("servicio %s no encontrado", t.ServicioEfectivo())
		}
		empleadoID := t.EmpleadoEfectivo()

		precio := svc.Precio
		if ov.PrecioFinal != nil {
			if ov.PrecioFinal.IsNegative() {
				return nil, errors.New("el precio final no puede ser negativo")
			}
			precio = *ov.PrecioFinal
		}

		sid := svc.ID
		lineas = append(lineas, lineaCobro{
			tipo:           model.ItemServicio,
			referenciaID:   &sid,
			descripcion:    svc.Nombre,
			cantidad:       1,
			precioUnitario: precio,
			subtotal:       precio,
			servicioID:     svc.ID,
			empleadoID:     empleadoID,
			comision:       resolverComision(svc, empleadoID, precio, 1),
		})
	}
	return lineas, nil
}

// resolverExtras builds lines for servicios and productos added at close-out.
// Service lines default their commission attribution to the turno's empleado.
func (s *cobroService) resolverExtras(ctx context.Context, empleadoDefault uuid.UUID, itemsServicios []dto.ItemServicioRequest, itemsProductos []dto.ItemProductoRequest) ([]lineaCobro, error) {
	lineas := make([]lineaCobro, 0, len(itemsServicios)+len(itemsProductos))

	for _, item := range itemsServicios {
		sid, err := uuid.Parse(item.ServicioID)
		if err != nil {
			return nil, fmt.Errorf("servicio_id inválido: %w", err)
		}
		svc, err := s.servicios.FindByID(ctx, sid)
		if err != nil {
			return nil, fmt.Errorf("servicio %s no encontrado", item.ServicioID)
		}
		if item.PrecioUnitario.IsNegative() {
			return nil, errors.New("el precio unitario no puede ser negativo")
		}
		empleadoID := empleadoDefault
		if item.EmpleadoID != nil {
			eid, err := uuid.Parse(*item.EmpleadoID)
			if err != nil {
				return nil, fmt.Errorf("empleado_id inválido: %w", err)
			}
			empleadoID = eid
		}
		subtotal := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		lineas = append(lineas, lineaCobro{
			tipo:           model.ItemServicio,
			referenciaID:   &svc.ID,
			descripcion:    svc.Nombre,
			cantidad:       item.Cantidad,
			precioUnitario: item.PrecioUnitario,
			subtotal:       subtotal,
			servicioID:     svc.ID,
			empleadoID:     empleadoID,
			comision:       resolverComision(svc, empleadoID, item.PrecioUnitario, item.Cantidad),
		})
	}

	for _, item := range itemsProductos {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		prod, err := s.productos.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if item.PrecioUnitario.IsNegative() {
			return nil, errors.New("el precio unitario no puede ser negativo")
		}
		subtotal := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		lineas = append(lineas, lineaCobro{
			tipo:           model.ItemProducto,
			referenciaID:   &prod.ID,
			descripcion:    prod.Nombre,
			cantidad:       item.Cantidad,
			precioUnitario: item.PrecioUnitario,
			subtotal:       subtotal,
		})
	}
	return lineas, nil
}

// resolverComision applies the resolved rule: porcentaje over the line price,
// or a flat amount per unit.
func resolverComision(svc *model.Servicio, empleadoID uuid.UUID, precioUnitario decimal.Decimal, cantidad int) decimal.Decimal {
	tipo, valor := svc.ComisionPara(empleadoID)
	linea := precioUnitario.Mul(decimal.NewFromInt(int64(cantidad)))
	switch tipo {
	case model.ComisionFija:
		return valor.Mul(decimal.NewFromInt(int64(cantidad)))
	case model.ComisionPorcentaje:
		return linea.Mul(valor).Div(decimal.NewFromInt(100)).Round(2)
	default:
		return decimal.Zero
	}
}

// creditosResueltos is the outcome of applying giftcard / seña to a close-out.
type creditosResueltos struct {
	giftcard   decimal.Decimal
	sena       decimal.Decimal
	giftcardID *uuid.UUID
	senaID     *uuid.UUID
	// unidades are the giftcard unit ids consumed inside the settlement tx.
	unidades []uuid.UUID
	agotada  bool
}

// resolverCreditos applies the credit rules: a giftcard covers matched
// service units only, and selecting one clears any seña. A seña credits its
// full monto. The caller clamps the final total at zero.
func (s *cobroService) resolverCreditos(ctx context.Context, clienteID uuid.UUID, lineas []lineaCobro, subtotal decimal.Decimal, senaID, giftcardID *string) (*creditosResueltos, error) {
	out := &creditosResueltos{giftcard: decimal.Zero, sena: decimal.Zero}

	if giftcardID != nil {
		gid, err := uuid.Parse(*giftcardID)
		if err != nil {
			return nil, fmt.Errorf("giftcard_id inválido: %w", err)
		}
		card, err := s.giftcards.FindByID(ctx, gid)
		if err != nil {
			return nil, errors.New("gift card no encontrada")
		}
		if !card.Vigente(s.now()) {
			return nil, rechazo(ValidacionEstadoInvalido,
				fmt.Sprintf("la gift card %s no está vigente (estado: %s)", card.Numero, card.Estado))
		}

		credito, unidades := matchearUnidades(card, lineas)
		if len(unidades) == 0 {
			return nil, rechazo(ValidacionEstadoInvalido,
				fmt.Sprintf("la gift card %s no cubre ninguno de los servicios cobrados", card.Numero))
		}
		if credito.GreaterThan(subtotal) {
			credito = subtotal
		}
		out.giftcard = credito
		out.giftcardID = &gid
		out.unidades = unidades

		restantes := 0
		for _, u := range card.Servicios {
			if !u.Usado {
				restantes++
			}
		}
		out.agotada = restantes <= len(unidades)

		// Giftcard and seña are mutually exclusive; the giftcard wins.
		return out, nil
	}

	if senaID != nil {
		sid, err := uuid.Parse(*senaID)
		if err != nil {
			return nil, fmt.Errorf("sena_id inválido: %w", err)
		}
		sena, err := s.senas.FindByID(ctx, sid)
		if err != nil {
			return nil, errors.New("seña no encontrada")
		}
		if sena.Estado != model.SenaPendiente {
			return nil, rechazo(ValidacionEstadoInvalido,
				fmt.Sprintf("la seña ya fue %s", sena.Estado))
		}
		if sena.ClienteID != clienteID {
			return nil, rechazo(ValidacionEstadoInvalido, "la seña pertenece a otro cliente")
		}
		out.sena = sena.Monto
		out.senaID = &sid
	}

	return out, nil
}

// matchearUnidades pairs unused giftcard units against service lines by
// servicio id. Each unit covers one unit of a matching line at that line's
// price. Returns the covered amount and the consumed unit ids.
func matchearUnidades(card *model.GiftCard, lineas []lineaCobro) (decimal.Decimal, []uuid.UUID) {
	credito := decimal.Zero
	unidades := make([]uuid.UUID, 0)
	usadas := make(map[uuid.UUID]bool)

	for _, l := range lineas {
		if l.tipo != model.ItemServicio {
			continue
		}
		for n := 0; n < l.cantidad; n++ {
			for _, u := range card.Servicios {
				if u.Usado || usadas[u.ID] || u.ServicioID != l.servicioID {
					continue
				}
				usadas[u.ID] = true
				unidades = append(unidades, u.ID)
				credito = credito.Add(l.precioUnitario)
				break
			}
		}
	}
	return credito, unidades
}

// emitirFactura runs the bounded synchronous invoice attempt. A failure marks
// the Pago pendiente for the retry cron and surfaces a warning; a provider
// rejection is terminal.
func (s *cobroService) emitirFactura(ctx context.Context, pago *model.Pago, clienteEmail *string, resp *dto.CobroResponse) {
	email := ""
	if clienteEmail != nil {
		email = *clienteEmail
	}
	payload := worker.BuildFacturaPayload(pago, email)

	var facturaResp *infra.FacturaResponse
	cbErr := s.cb.Execute(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.facturadorTimeout)
		defer cancel()
		r, err := s.facturador.Emitir(callCtx, payload)
		if err != nil {
			return err
		}
		facturaResp = r
		return nil
	})

	switch {
	case cbErr != nil:
		retryAt := s.now().Add(worker.ComputeRetryBackoff(1))
		msg := cbErr.Error()
		pago.EstadoFactura = model.FacturaPendiente
		pago.RetryCount = 1
		pago.NextRetryAt = &retryAt
		pago.LastError = &msg
		adv := "la factura no pudo emitirse y quedó pendiente; se reintentará automáticamente"
		resp.FacturaPendiente = true
		resp.Advertencia = &adv
		log.Warn().Err(cbErr).Str("pago_id", pago.ID.String()).Msg("cobro: factura degraded to pendiente")
	case facturaResp.Resultado == "A":
		pago.EstadoFactura = model.FacturaEmitida
		id := facturaResp.FacturaID
		pago.FacturaID = &id
		resp.FacturaID = &id
	default:
		pago.EstadoFactura = model.FacturaError
		msg := fmt.Sprintf("facturador rechazó: resultado=%s", facturaResp.Resultado)
		pago.LastError = &msg
		adv := "el facturador rechazó la factura; revisar manualmente"
		resp.Advertencia = &adv
		log.Warn().Str("pago_id", pago.ID.String()).Str("resultado", facturaResp.Resultado).Msg("cobro: factura rejected")
	}

	if err := s.pagos.Update(ctx, pago); err != nil {
		log.Error().Err(err).Str("pago_id", pago.ID.String()).Msg("cobro: failed to persist factura state")
	}
	resp.Pago.EstadoFactura = pago.EstadoFactura
}

func (s *cobroService) despacharRecibo(ctx context.Context, turno *model.Turno, pago *model.Pago, clienteEmail *string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.ReciboJobPayload{PagoID: pago.ID.String()}
	if turno.Cliente != nil {
		payload.ClienteNombre = turno.Cliente.Nombre
		if turno.Cliente.Email != nil {
			payload.ClienteEmail = *turno.Cliente.Email
		}
	}
	if clienteEmail != nil && *clienteEmail != "" {
		payload.ClienteEmail = *clienteEmail
	}
	if err := s.dispatcher.EnqueueRecibo(ctx, payload); err != nil {
		log.Error().Err(err).Str("pago_id", pago.ID.String()).Msg("cobro: failed to enqueue recibo job")
	}
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	items := make([]dto.PagoItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PagoItemResponse{
			Tipo:           it.Tipo,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
			ComisionMonto:  it.ComisionMonto,
		})
	}
	return dto.PagoResponse{
		ID:              p.ID.String(),
		NumeroRecibo:    p.NumeroRecibo,
		Metodo:          p.Metodo,
		Subtotal:        p.Subtotal,
		CreditoGiftcard: p.CreditoGiftcard,
		CreditoSena:     p.CreditoSena,
		Penalidad:       p.Penalidad,
		Total:           p.Total,
		EstadoFactura:   p.EstadoFactura,
		Observaciones:   p.Observaciones,
		Items:           items,
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
