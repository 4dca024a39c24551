package service

// In-memory repository stubs shared by the service tests. Each stub keeps
// entities in maps keyed by id and satisfies its repository interface.

import (
	"context"
	"errors"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/infra"
	"agendasalon/internal/model"
	"agendasalon/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Catálogo ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubEmpleadoRepo struct {
	empleados map[uuid.UUID]*model.Empleado
}

func newStubEmpleadoRepo() *stubEmpleadoRepo {
	return &stubEmpleadoRepo{empleados: make(map[uuid.UUID]*model.Empleado)}
}

func (r *stubEmpleadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empleado, error) {
	e, ok := r.empleados[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

var _ repository.EmpleadoRepository = (*stubEmpleadoRepo)(nil)

type stubServicioRepo struct {
	servicios map[uuid.UUID]*model.Servicio
}

func newStubServicioRepo() *stubServicioRepo {
	return &stubServicioRepo{servicios: make(map[uuid.UUID]*model.Servicio)}
}

func (r *stubServicioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Servicio, error) {
	s, ok := r.servicios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

var _ repository.ServicioRepository = (*stubServicioRepo)(nil)

type stubRecursoRepo struct {
	recursos map[uuid.UUID]*model.Recurso
}

func newStubRecursoRepo() *stubRecursoRepo {
	return &stubRecursoRepo{recursos: make(map[uuid.UUID]*model.Recurso)}
}

func (r *stubRecursoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Recurso, error) {
	rec, ok := r.recursos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

var _ repository.RecursoRepository = (*stubRecursoRepo)(nil)

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubHorarioLocalRepo struct {
	horarios map[int]*model.HorarioLocal
}

func newStubHorarioLocalRepo() *stubHorarioLocalRepo {
	return &stubHorarioLocalRepo{horarios: make(map[int]*model.HorarioLocal)}
}

func (r *stubHorarioLocalRepo) FindByDiaSemana(_ context.Context, dia int) (*model.HorarioLocal, error) {
	h, ok := r.horarios[dia]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

var _ repository.HorarioLocalRepository = (*stubHorarioLocalRepo)(nil)

// ── Turnos ───────────────────────────────────────────────────────────────────

type stubTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
	// solapadoEn simulates the commit-time exclusion constraint firing.
	solapadoEn bool
}

func newStubTurnoRepo() *stubTurnoRepo {
	return &stubTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

func (r *stubTurnoRepo) CreateBatch(_ context.Context, _ *gorm.DB, turnos []*model.Turno) error {
	if r.solapadoEn {
		return repository.ErrTurnoSolapado
	}
	for _, t := range turnos {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		r.turnos[t.ID] = t
	}
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *stubTurnoRepo) FindByGrupoID(_ context.Context, grupoID uuid.UUID) ([]model.Turno, error) {
	out := make([]model.Turno, 0)
	for _, t := range r.turnos {
		if t.GrupoID != nil && *t.GrupoID == grupoID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTurnoRepo) ListActivosEntre(_ context.Context, desde, hasta time.Time, excluir []uuid.UUID) ([]model.Turno, error) {
	skip := make(map[uuid.UUID]bool, len(excluir))
	for _, id := range excluir {
		skip[id] = true
	}
	out := make([]model.Turno, 0)
	for _, t := range r.turnos {
		if t.Estado == model.TurnoCancelado || skip[t.ID] {
			continue
		}
		if t.Inicio.Before(hasta) && t.Fin().After(desde) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	if _, ok := r.turnos[t.ID]; !ok {
		return errors.New("not found")
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) UpdateTx(_ *gorm.DB, t *model.Turno) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) List(_ context.Context, _ dto.TurnoFilter) ([]model.Turno, int64, error) {
	out := make([]model.Turno, 0, len(r.turnos))
	for _, t := range r.turnos {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTurnoRepo) DB() *gorm.DB { return nil }

var _ repository.TurnoRepository = (*stubTurnoRepo)(nil)

// ── Créditos ─────────────────────────────────────────────────────────────────

type stubSenaRepo struct {
	senas map[uuid.UUID]*model.Sena
	// aplicadas records MarcarAplicadaTx calls: sena id → pago id.
	aplicadas map[uuid.UUID]uuid.UUID
}

func newStubSenaRepo() *stubSenaRepo {
	return &stubSenaRepo{
		senas:     make(map[uuid.UUID]*model.Sena),
		aplicadas: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *stubSenaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sena, error) {
	s, ok := r.senas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSenaRepo) MarcarAplicadaTx(_ *gorm.DB, id, pagoID uuid.UUID) error {
	s, ok := r.senas[id]
	if !ok {
		return errors.New("not found")
	}
	s.Estado = model.SenaAplicada
	s.PagoID = &pagoID
	r.aplicadas[id] = pagoID
	return nil
}

var _ repository.SenaRepository = (*stubSenaRepo)(nil)

type stubGiftCardRepo struct {
	cards map[uuid.UUID]*model.GiftCard
	// consumidas records ConsumirUnidadesTx calls per card.
	consumidas map[uuid.UUID][]uuid.UUID
	agotadas   map[uuid.UUID]bool
}

func newStubGiftCardRepo() *stubGiftCardRepo {
	return &stubGiftCardRepo{
		cards:      make(map[uuid.UUID]*model.GiftCard),
		consumidas: make(map[uuid.UUID][]uuid.UUID),
		agotadas:   make(map[uuid.UUID]bool),
	}
}

func (r *stubGiftCardRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GiftCard, error) {
	g, ok := r.cards[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return g, nil
}

func (r *stubGiftCardRepo) ConsumirUnidadesTx(_ *gorm.DB, cardID uuid.UUID, unidadIDs []uuid.UUID, agotada bool) error {
	r.consumidas[cardID] = append(r.consumidas[cardID], unidadIDs...)
	r.agotadas[cardID] = agotada
	if g, ok := r.cards[cardID]; ok {
		marked := make(map[uuid.UUID]bool, len(unidadIDs))
		for _, id := range unidadIDs {
			marked[id] = true
		}
		for i := range g.Servicios {
			if marked[g.Servicios[i].ID] {
				g.Servicios[i].Usado = true
			}
		}
		if agotada {
			g.Estado = model.GiftCardRedimida
		}
	}
	return nil
}

var _ repository.GiftCardRepository = (*stubGiftCardRepo)(nil)

// ── Pagos ────────────────────────────────────────────────────────────────────

type stubPagoRepo struct {
	pagos     map[uuid.UUID]*model.Pago
	reciboSeq int
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos[p.ID] = p
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubPagoRepo) Update(_ context.Context, p *model.Pago) error {
	r.pagos[p.ID] = p
	return nil
}

func (r *stubPagoRepo) NextReciboNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.reciboSeq++
	return r.reciboSeq, nil
}

func (r *stubPagoRepo) ListPendingRetries(_ context.Context, before time.Time, limit int) ([]model.Pago, error) {
	out := make([]model.Pago, 0)
	for _, p := range r.pagos {
		if p.EstadoFactura == model.FacturaPendiente && p.NextRetryAt != nil && !p.NextRetryAt.After(before) {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubPagoRepo) DB() *gorm.DB { return nil }

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── Facturador ───────────────────────────────────────────────────────────────

// stubFacturador can be configured to succeed, fail, or reject.
type stubFacturador struct {
	failWith error
	rechaza  bool
	llamadas int
	ultimo   infra.FacturaPayload
}

func (f *stubFacturador) Emitir(_ context.Context, payload infra.FacturaPayload) (*infra.FacturaResponse, error) {
	f.llamadas++
	f.ultimo = payload
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.rechaza {
		return &infra.FacturaResponse{Resultado: "R"}, nil
	}
	return &infra.FacturaResponse{FacturaID: "FC-0001-00001234", Resultado: "A"}, nil
}

var _ infra.Facturador = (*stubFacturador)(nil)
