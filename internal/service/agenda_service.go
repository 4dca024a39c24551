package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/model"
	"agendasalon/internal/repository"
	"agendasalon/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgendaService is the single admission point for booking requests and the
// owner of the turno lifecycle outside of settlement.
type AgendaService interface {
	CrearTurnos(ctx context.Context, req dto.CrearTurnosRequest) (*dto.TurnosCreadosResponse, error)
	EditarTurno(ctx context.Context, id uuid.UUID, req dto.EditarTurnoRequest) (*dto.TurnoResponse, error)
	IniciarTurno(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error)
	CancelarTurno(ctx context.Context, id uuid.UUID, motivo string) error
	EnviarConfirmacion(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error)
	ResponderConfirmacion(ctx context.Context, id uuid.UUID, estado string) (*dto.TurnoResponse, error)
	ListarTurnos(ctx context.Context, filter dto.TurnoFilter) (*dto.TurnoListResponse, error)
	AgendaEmpleado(ctx context.Context, empleadoID uuid.UUID, fecha string) (*dto.AgendaEmpleadoResponse, error)
}

type agendaService struct {
	turnos         repository.TurnoRepository
	clientes       repository.ClienteRepository
	servicios      repository.ServicioRepository
	empleados      repository.EmpleadoRepository
	horarioLocal   repository.HorarioLocalRepository
	disponibilidad DisponibilidadService
	recursos       RecursoService
	dispatcher     *worker.Dispatcher
	loc            *time.Location
	// toleranciaInicio: a turno may start up to this long before its
	// scheduled time.
	toleranciaInicio time.Duration
	now              func() time.Time
}

func NewAgendaService(
	turnos repository.TurnoRepository,
	clientes repository.ClienteRepository,
	servicios repository.ServicioRepository,
	empleados repository.EmpleadoRepository,
	horarioLocal repository.HorarioLocalRepository,
	disponibilidad DisponibilidadService,
	recursos RecursoService,
	dispatcher *worker.Dispatcher,
	loc *time.Location,
	toleranciaInicioMinutos int,
) AgendaService {
	return &agendaService{
		turnos:           turnos,
		clientes:         clientes,
		servicios:        servicios,
		empleados:        empleados,
		horarioLocal:     horarioLocal,
		disponibilidad:   disponibilidad,
		recursos:         recursos,
		dispatcher:       dispatcher,
		loc:              loc,
		toleranciaInicio: time.Duration(toleranciaInicioMinutos) * time.Minute,
		now:              time.Now,
	}
}

// candidato is one resolved booking inside an admission request.
type candidato struct {
	servicio *model.Servicio
	empleado *model.Empleado
	inicio   time.Time
	duracion int
}

// ── CrearTurnos ───────────────────────────────────────────────────────────────
// Admission rules run in order; the first hard violation rejects the whole
// request. Resource capacity (last rule) is soft and skipped when the caller
// retries with omitir_chequeo_recursos.

func (s *agendaService) CrearTurnos(ctx context.Context, req dto.CrearTurnosRequest) (*dto.TurnosCreadosResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente %s no encontrado", req.ClienteID)
	}
	if !cliente.Activo {
		return nil, errors.New("el cliente está inactivo")
	}

	candidatos, err := s.resolverCandidatos(ctx, req.Inicio, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.validarAdmision(ctx, candidatos, nil, req.OmitirChequeoRecursos); err != nil {
		return nil, err
	}

	// Build the turnos; >1 items share a grupo id.
	var grupoID *uuid.UUID
	if len(candidatos) > 1 {
		gid := uuid.New()
		grupoID = &gid
	}
	turnos := make([]*model.Turno, 0, len(candidatos))
	for _, c := range candidatos {
		turnos = append(turnos, &model.Turno{
			ClienteID:       clienteID,
			ServicioID:      c.servicio.ID,
			EmpleadoID:      c.empleado.ID,
			Inicio:          c.inicio,
			DuracionMinutos: c.duracion,
			Estado:          model.TurnoPendiente,
			Confirmacion:    model.ConfirmacionNoEnviada,
			GrupoID:         grupoID,
			Observaciones:   req.Observaciones,
		})
	}

	txErr := runTx(ctx, s.turnos.DB(), func(tx *gorm.DB) error {
		return s.turnos.CreateBatch(ctx, tx, turnos)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.TurnosCreadosResponse{Turnos: make([]dto.TurnoResponse, 0, len(turnos))}
	if grupoID != nil {
		g := grupoID.String()
		resp.GrupoID = &g
	}
	for i, t := range turnos {
		tr := turnoToResponse(t)
		tr.Cliente = cliente.Nombre
		tr.Servicio = candidatos[i].servicio.Nombre
		tr.Empleado = candidatos[i].empleado.Nombre
		resp.Turnos = append(resp.Turnos, tr)
	}
	return resp, nil
}

func (s *agendaService) resolverCandidatos(ctx context.Context, inicio time.Time, items []dto.ItemTurnoRequest) ([]candidato, error) {
	candidatos := make([]candidato, 0, len(items))
	for _, item := range items {
		sid, err := uuid.Parse(item.ServicioID)
		if err != nil {
			return nil, fmt.Errorf("servicio_id inválido: %w", err)
		}
		eid, err := uuid.Parse(item.EmpleadoID)
		if err != nil {
			return nil, fmt.Errorf("empleado_id inválido: %w", err)
		}
		svc, err := s.servicios.FindByID(ctx, sid)
		if err != nil {
			return nil, fmt.Errorf("servicio %s no encontrado", item.ServicioID)
		}
		if !svc.Activo {
			return nil, fmt.Errorf("el servicio %s está inactivo", svc.Nombre)
		}
		emp, err := s.empleados.FindByID(ctx, eid)
		if err != nil {
			return nil, fmt.Errorf("empleado %s no encontrado", item.EmpleadoID)
		}
		if !emp.Activo {
			return nil, fmt.Errorf("el empleado %s está inactivo", emp.Nombre)
		}
		candidatos = append(candidatos, candidato{
			servicio: svc,
			empleado: emp,
			inicio:   inicio,
			duracion: item.DuracionMinutos,
		})
	}
	return candidatos, nil
}

// validarAdmision runs the ordered admission rules over one or more
// simultaneous candidates. excluir carries turno ids being edited so the
// capacity sweep ignores them.
func (s *agendaService) validarAdmision(ctx context.Context, candidatos []candidato, excluir []uuid.UUID, omitirRecursos bool) error {
	// 1. Staff eligibility per servicio (hard).
	for _, c := range candidatos {
		if !c.servicio.EmpleadoHabilitado(c.empleado.ID) {
			return rechazo(ValidacionEmpleadoNoHabilitado,
				fmt.Sprintf("el empleado %s no está habilitado para el servicio %s", c.empleado.Nombre, c.servicio.Nombre))
		}
	}

	// 2. No empleado twice in one simultaneous request (hard).
	vistos := make(map[uuid.UUID]bool, len(candidatos))
	for _, c := range candidatos {
		if vistos[c.empleado.ID] {
			return rechazo(ValidacionEmpleadoDuplicado,
				fmt.Sprintf("el empleado %s aparece más de una vez en la solicitud", c.empleado.Nombre))
		}
		vistos[c.empleado.ID] = true
	}

	// 3. Business hours for the weekday, when configured (hard).
	inicio := candidatos[0].inicio.In(s.loc)
	horario, err := s.horarioLocal.FindByDiaSemana(ctx, int(inicio.Weekday()))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no window configured for the weekday — rule does not apply
	case err != nil:
		return err
	default:
		apertura, err := parseHoraEn(horario.Apertura, inicio, s.loc)
		if err != nil {
			return err
		}
		cierre, err := parseHoraEn(horario.Cierre, inicio, s.loc)
		if err != nil {
			return err
		}
		if inicio.Before(apertura) || !inicio.Before(cierre) {
			return rechazo(ValidacionFueraDeHorario,
				fmt.Sprintf("el horario solicitado está fuera del horario del local (%s a %s)", horario.Apertura, horario.Cierre))
		}
	}

	// 4. Staff availability window and partial absences (hard).
	for _, c := range candidatos {
		fin := c.inicio.Add(time.Duration(c.duracion) * time.Minute)

		ventana, err := s.disponibilidad.Ventana(ctx, c.empleado.ID, c.inicio)
		if err != nil {
			return err
		}
		if ventana == nil {
			return rechazo(ValidacionConflictoAusencia,
				fmt.Sprintf("el empleado %s no trabaja el %s", c.empleado.Nombre, c.inicio.In(s.loc).Format("2006-01-02")))
		}
		if c.inicio.Before(ventana.Inicio) || fin.After(ventana.Fin) {
			return rechazo(ValidacionConflictoAusencia,
				fmt.Sprintf("el turno excede la jornada de %s (%s a %s)",
					c.empleado.Nombre,
					ventana.Inicio.In(s.loc).Format("15:04"),
					ventana.Fin.In(s.loc).Format("15:04")))
		}

		bloqueos, err := s.disponibilidad.Bloqueos(ctx, c.empleado.ID, c.inicio)
		if err != nil {
			return err
		}
		for _, b := range bloqueos {
			if seSolapan(c.inicio, fin, b.Inicio, b.Fin) {
				return rechazo(ValidacionConflictoAusencia,
					fmt.Sprintf("el empleado %s tiene una ausencia (%s) de %s a %s",
						c.empleado.Nombre, b.Motivo,
						b.Inicio.In(s.loc).Format("15:04"),
						b.Fin.In(s.loc).Format("15:04")))
			}
		}
	}

	// 5. Resource capacity (soft — skippable on retry with force).
	if !omitirRecursos {
		cand := make([]CandidatoRecurso, 0, len(candidatos))
		for _, c := range candidatos {
			cand = append(cand, CandidatoRecurso{ServicioID: c.servicio.ID, Inicio: c.inicio, DuracionMinutos: c.duracion})
		}
		conflictos, err := s.recursos.VerificarCapacidad(ctx, cand, excluir)
		if err != nil {
			return err
		}
		if len(conflictos) > 0 {
			return &ConflictoRecursosError{Conflictos: conflictos}
		}
	}
	return nil
}

// ── EditarTurno ───────────────────────────────────────────────────────────────
// Field edits are permitted only while pendiente and before the scheduled
// start; the edited slot re-runs the full admission check, excluding the
// turno itself from the capacity sweep.

func (s *agendaService) EditarTurno(ctx context.Context, id uuid.UUID, req dto.EditarTurnoRequest) (*dto.TurnoResponse, error) {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if t.Estado != model.TurnoPendiente {
		return nil, rechazo(ValidacionEstadoInvalido,
			fmt.Sprintf("solo se pueden editar turnos pendientes (estado actual: %s)", t.Estado))
	}
	if !s.now().Before(t.Inicio) {
		return nil, rechazo(ValidacionEstadoInvalido, "no se puede editar un turno cuyo horario ya pasó")
	}

	if req.ServicioID != nil {
		sid, err := uuid.Parse(*req.ServicioID)
		if err != nil {
			return nil, fmt.Errorf("servicio_id inválido: %w", err)
		}
		t.ServicioID = sid
	}
	if req.EmpleadoID != nil {
		eid, err := uuid.Parse(*req.EmpleadoID)
		if err != nil {
			return nil, fmt.Errorf("empleado_id inválido: %w", err)
		}
		t.EmpleadoID = eid
	}
	if req.Inicio != nil {
		if !s.now().Before(*req.Inicio) {
			return nil, rechazo(ValidacionEstadoInvalido, "el nuevo horario debe estar en el futuro")
		}
		t.Inicio = *req.Inicio
	}
	if req.DuracionMinutos != nil {
		t.DuracionMinutos = *req.DuracionMinutos
	}
	if req.Observaciones != nil {
		t.Observaciones = req.Observaciones
	}

	svc, err := s.servicios.FindByID(ctx, t.ServicioID)
	if err != nil {
		return nil, fmt.Errorf("servicio %s no encontrado", t.ServicioID)
	}
	emp, err := s.empleados.FindByID(ctx, t.EmpleadoID)
	if err != nil {
		return nil, fmt.Errorf("empleado %s no encontrado", t.EmpleadoID)
	}
	cand := []candidato{{servicio: svc, empleado: emp, inicio: t.Inicio, duracion: t.DuracionMinutos}}
	if err := s.validarAdmision(ctx, cand, []uuid.UUID{t.ID}, req.OmitirChequeoRecursos); err != nil {
		return nil, err
	}

	if err := s.turnos.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := turnoToResponse(t)
	resp.Servicio = svc.Nombre
	resp.Empleado = emp.Nombre
	return &resp, nil
}

// ── IniciarTurno ──────────────────────────────────────────────────────────────
// pendiente → en_curso, permitted only within the start tolerance of the
// scheduled time (or after it). Starting twice is rejected, not ignored.

func (s *agendaService) IniciarTurno(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error) {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	switch t.Estado {
	case model.TurnoPendiente:
		// ok
	case model.TurnoEnCurso:
		return nil, rechazo(ValidacionEstadoInvalido, "el turno ya fue iniciado")
	default:
		return nil, rechazo(ValidacionEstadoInvalido,
			fmt.Sprintf("no se puede iniciar un turno %s", t.Estado))
	}

	ahora := s.now()
	if ahora.Before(t.Inicio.Add(-s.toleranciaInicio)) {
		return nil, rechazo(ValidacionEstadoInvalido,
			fmt.Sprintf("el turno solo puede iniciarse desde %d minutos antes del horario programado", int(s.toleranciaInicio.Minutes())))
	}

	tardanza := 0
	if ahora.After(t.Inicio) {
		tardanza = int(ahora.Sub(t.Inicio).Minutes())
	}
	t.Estado = model.TurnoEnCurso
	t.IniciadoEn = &ahora
	t.MinutosTardanza = tardanza

	if err := s.turnos.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

// ── CancelarTurno ─────────────────────────────────────────────────────────────
// Cancellation is a status, never a deletion; the slot is freed immediately
// for subsequent admission checks. Cancelling an already-cancelled turno is
// rejected to surface operator mistakes.

func (s *agendaService) CancelarTurno(ctx context.Context, id uuid.UUID, motivo string) error {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return errors.New("turno no encontrado")
	}
	switch t.Estado {
	case model.TurnoCompletado:
		return rechazo(ValidacionEstadoInvalido, "no se puede cancelar un turno completado")
	case model.TurnoCancelado:
		return rechazo(ValidacionEstadoInvalido, "el turno ya está cancelado")
	}
	t.Estado = model.TurnoCancelado
	t.MotivoCancel = &motivo
	return s.turnos.Update(ctx, t)
}

// ── Confirmación ──────────────────────────────────────────────────────────────

// EnviarConfirmacion queues the confirmation email for the cliente and moves
// the sub-status to enviada. Re-sending while enviada is allowed.
func (s *agendaService) EnviarConfirmacion(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error) {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if t.Estado != model.TurnoPendiente {
		return nil, rechazo(ValidacionEstadoInvalido, "solo se confirman turnos pendientes")
	}
	if t.Confirmacion != model.ConfirmacionNoEnviada && t.Confirmacion != model.ConfirmacionEnviada {
		return nil, rechazo(ValidacionEstadoInvalido,
			fmt.Sprintf("la confirmación ya fue respondida (%s)", t.Confirmacion))
	}
	if t.Cliente == nil || t.Cliente.Email == nil || *t.Cliente.Email == "" {
		return nil, errors.New("el cliente no tiene email registrado")
	}

	if s.dispatcher != nil {
		nombre := ""
		if t.Servicio != nil {
			nombre = t.Servicio.Nombre
		}
		payload := worker.EmailJobPayload{
			ToEmail: *t.Cliente.Email,
			Subject: "Confirmá tu turno en AgendaSalon",
			Body: fmt.Sprintf("Hola %s: te esperamos el %s a las %s para %s. Respondé este mail para confirmar o cancelar.",
				t.Cliente.Nombre,
				t.Inicio.In(s.loc).Format("02/01/2006"),
				t.Inicio.In(s.loc).Format("15:04"),
				nombre),
		}
		if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
			return nil, fmt.Errorf("no se pudo encolar el email de confirmación: %w", err)
		}
	}

	t.Confirmacion = model.ConfirmacionEnviada
	if err := s.turnos.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

// ResponderConfirmacion records the cliente's answer. A client-initiated
// cancelado also cancels the turno itself.
func (s *agendaService) ResponderConfirmacion(ctx context.Context, id uuid.UUID, estado string) (*dto.TurnoResponse, error) {
	t, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if t.Estado != model.TurnoPendiente {
		return nil, rechazo(ValidacionEstadoInvalido, "solo se confirman turnos pendientes")
	}
	if t.Confirmacion == model.ConfirmacionConfirmado || t.Confirmacion == model.ConfirmacionCancelado {
		return nil, rechazo(ValidacionEstadoInvalido,
			fmt.Sprintf("la confirmación ya fue respondida (%s)", t.Confirmacion))
	}

	switch estado {
	case model.ConfirmacionConfirmado:
		t.Confirmacion = model.ConfirmacionConfirmado
	case model.ConfirmacionCancelado:
		t.Confirmacion = model.ConfirmacionCancelado
		t.Estado = model.TurnoCancelado
		motivo := "cancelado por el cliente"
		t.MotivoCancel = &motivo
	default:
		return nil, fmt.Errorf("estado de confirmación inválido: %s", estado)
	}

	if err := s.turnos.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *agendaService) ListarTurnos(ctx context.Context, filter dto.TurnoFilter) (*dto.TurnoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	turnos, total, err := s.turnos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		items = append(items, turnoConNombres(&turnos[i]))
	}
	return &dto.TurnoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// AgendaEmpleado is the calendar feed: resolved window, partial-absence
// blocks and the day's turnos for one empleado.
func (s *agendaService) AgendaEmpleado(ctx context.Context, empleadoID uuid.UUID, fecha string) (*dto.AgendaEmpleadoResponse, error) {
	dia, err := time.ParseInLocation("2006-01-02", fecha, s.loc)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q (se espera YYYY-MM-DD)", fecha)
	}

	ventana, err := s.disponibilidad.Ventana(ctx, empleadoID, dia)
	if err != nil {
		return nil, err
	}
	bloqueos, err := s.disponibilidad.Bloqueos(ctx, empleadoID, dia)
	if err != nil {
		return nil, err
	}

	desde, hasta := rangoDia(dia, s.loc)
	delDia, err := s.turnos.ListActivosEntre(ctx, desde, hasta, nil)
	if err != nil {
		return nil, err
	}
	turnos := make([]dto.TurnoResponse, 0)
	for i := range delDia {
		if delDia[i].EmpleadoID == empleadoID {
			turnos = append(turnos, turnoConNombres(&delDia[i]))
		}
	}

	return &dto.AgendaEmpleadoResponse{
		EmpleadoID: empleadoID.String(),
		Fecha:      fecha,
		Disponible: ventana != nil,
		Ventana:    ventana,
		Bloqueos:   bloqueos,
		Turnos:     turnos,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func turnoToResponse(t *model.Turno) dto.TurnoResponse {
	r := dto.TurnoResponse{
		ID:              t.ID.String(),
		ClienteID:       t.ClienteID.String(),
		ServicioID:      t.ServicioID.String(),
		EmpleadoID:      t.EmpleadoID.String(),
		Inicio:          t.Inicio,
		DuracionMinutos: t.DuracionMinutos,
		Estado:          t.Estado,
		Confirmacion:    t.Confirmacion,
		IniciadoEn:      t.IniciadoEn,
		MinutosTardanza: t.MinutosTardanza,
		Penalidad:       t.Penalidad,
		Observaciones:   t.Observaciones,
		CreatedAt:       t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.GrupoID != nil {
		g := t.GrupoID.String()
		r.GrupoID = &g
	}
	if t.ServicioFinalID != nil {
		v := t.ServicioFinalID.String()
		r.ServicioFinalID = &v
	}
	if t.EmpleadoFinalID != nil {
		v := t.EmpleadoFinalID.String()
		r.EmpleadoFinalID = &v
	}
	return r
}

func turnoConNombres(t *model.Turno) dto.TurnoResponse {
	r := turnoToResponse(t)
	if t.Cliente != nil {
		r.Cliente = t.Cliente.Nombre
	}
	if t.Servicio != nil {
		r.Servicio = t.Servicio.Nombre
	}
	if t.Empleado != nil {
		r.Empleado = t.Empleado.Nombre
	}
	return r
}
