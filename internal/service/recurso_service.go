package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/repository"

	"github.com/google/uuid"
)

// CandidatoRecurso is one booking to be admitted, as seen by the capacity
// tracker: which servicio, when, for how long.
type CandidatoRecurso struct {
	ServicioID      uuid.UUID
	Inicio          time.Time
	DuracionMinutos int
}

// RecursoService evaluates whether a set of concurrent bookings exceeds the
// finite quantity of any shared resource. The check is advisory: callers may
// force-accept past a conflict.
type RecursoService interface {
	// VerificarCapacidad computes, per recurso, the peak number of concurrent
	// bookings requiring it across the candidates plus all persisted
	// non-cancelled turnos of the same day (minus excluir), and reports each
	// recurso whose peak exceeds its available quantity. Empty result = no
	// conflict.
	VerificarCapacidad(ctx context.Context, candidatos []CandidatoRecurso, excluir []uuid.UUID) ([]dto.ConflictoRecurso, error)
}

type recursoService struct {
	servicios repository.ServicioRepository
	recursos  repository.RecursoRepository
	turnos    repository.TurnoRepository
	loc       *time.Location
}

func NewRecursoService(
	servicios repository.ServicioRepository,
	recursos repository.RecursoRepository,
	turnos repository.TurnoRepository,
	loc *time.Location,
) RecursoService {
	return &recursoService{servicios: servicios, recursos: recursos, turnos: turnos, loc: loc}
}

// intervalo is a half-open booking interval demanding one unit of a recurso.
type intervalo struct {
	inicio time.Time
	fin    time.Time
}

func (s *recursoService) VerificarCapacidad(ctx context.Context, candidatos []CandidatoRecurso, excluir []uuid.UUID) ([]dto.ConflictoRecurso, error) {
	if len(candidatos) == 0 {
		return nil, nil
	}

	// Group candidate intervals by the recurso bound to their servicio;
	// servicios without a recurso never conflict.
	porRecurso := make(map[uuid.UUID][]intervalo)
	for _, c := range candidatos {
		svc, err := s.servicios.FindByID(ctx, c.ServicioID)
		if err != nil {
			return nil, fmt.Errorf("servicio %s no encontrado", c.ServicioID)
		}
		if svc.RecursoID == nil {
			continue
		}
		fin := c.Inicio.Add(time.Duration(c.DuracionMinutos) * time.Minute)
		porRecurso[*svc.RecursoID] = append(porRecurso[*svc.RecursoID], intervalo{inicio: c.Inicio, fin: fin})
	}
	if len(porRecurso) == 0 {
		return nil, nil
	}

	// All candidates share a start time; their date defines the day whose
	// persisted turnos join the sweep.
	desde, hasta := rangoDia(candidatos[0].Inicio, s.loc)
	persistidos, err := s.turnos.ListActivosEntre(ctx, desde, hasta, excluir)
	if err != nil {
		return nil, err
	}
	for i := range persistidos {
		t := &persistidos[i]
		if t.Servicio == nil || t.Servicio.RecursoID == nil {
			continue
		}
		rid := *t.Servicio.RecursoID
		if _, relevante := porRecurso[rid]; !relevante {
			continue
		}
		porRecurso[rid] = append(porRecurso[rid], intervalo{inicio: t.Inicio, fin: t.Fin()})
	}

	conflictos := make([]dto.ConflictoRecurso, 0)
	for rid, intervalos := range porRecurso {
		rec, err := s.recursos.FindByID(ctx, rid)
		if err != nil {
			return nil, fmt.Errorf("recurso %s no encontrado", rid)
		}
		pico := picoConcurrencia(intervalos)
		if pico > rec.Cantidad {
			conflictos = append(conflictos, dto.ConflictoRecurso{
				RecursoID:          rid.String(),
				RecursoNombre:      rec.Nombre,
				CantidadDisponible: rec.Cantidad,
				CantidadRequerida:  pico,
			})
		}
	}
	sort.Slice(conflictos, func(i, j int) bool { return conflictos[i].RecursoNombre < conflictos[j].RecursoNombre })
	return conflictos, nil
}

// picoConcurrencia sweeps the interval endpoints and returns the maximum
// number of simultaneously open intervals. Ends sort before starts at equal
// instants, so back-to-back bookings do not stack.
func picoConcurrencia(intervalos []intervalo) int {
	type evento struct {
		t     time.Time
		delta int
	}
	eventos := make([]evento, 0, len(intervalos)*2)
	for _, iv := range intervalos {
		eventos = append(eventos, evento{t: iv.inicio, delta: +1})
		eventos = append(eventos, evento{t: iv.fin, delta: -1})
	}
	sort.Slice(eventos, func(i, j int) bool {
		if eventos[i].t.Equal(eventos[j].t) {
			return eventos[i].delta < eventos[j].delta
		}
		return eventos[i].t.Before(eventos[j].t)
	})

	pico, abiertos := 0, 0
	for _, e := range eventos {
		abiertos += e.delta
		if abiertos > pico {
			pico = abiertos
		}
	}
	return pico
}
