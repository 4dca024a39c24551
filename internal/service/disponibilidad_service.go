package service

import (
	"context"
	"fmt"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/model"
	"agendasalon/internal/repository"

	"github.com/google/uuid"
)

// DisponibilidadService resolves an empleado's effective working window for a
// date from the weekly schedule plus absence records. Pure read — no side
// effects.
type DisponibilidadService interface {
	// Ventana returns the working window for fecha, or nil when the empleado
	// has no weekly-schedule entry for that weekday or a full-day ausencia
	// covers the date.
	Ventana(ctx context.Context, empleadoID uuid.UUID, fecha time.Time) (*dto.VentanaLaboral, error)
	// Bloqueos returns the partial-absence sub-intervals for fecha. They do
	// not shrink the window returned by Ventana; the scheduling validator and
	// the calendar feed consume them separately.
	Bloqueos(ctx context.Context, empleadoID uuid.UUID, fecha time.Time) ([]dto.BloqueoHorario, error)
}

type disponibilidadService struct {
	empleados repository.EmpleadoRepository
	loc       *time.Location
}

func NewDisponibilidadService(empleados repository.EmpleadoRepository, loc *time.Location) DisponibilidadService {
	return &disponibilidadService{empleados: empleados, loc: loc}
}

func (s *disponibilidadService) Ventana(ctx context.Context, empleadoID uuid.UUID, fecha time.Time) (*dto.VentanaLaboral, error) {
	emp, err := s.empleados.FindByID(ctx, empleadoID)
	if err != nil {
		return nil, fmt.Errorf("empleado %s no encontrado", empleadoID)
	}
	if !emp.Activo {
		return nil, nil
	}

	horario := horarioDelDia(emp.Horarios, fecha.In(s.loc).Weekday())
	if horario == nil {
		return nil, nil
	}

	for i := range emp.Ausencias {
		a := &emp.Ausencias[i]
		if a.DiaCompleto() && a.CubreFecha(fecha.In(s.loc)) {
			return nil, nil
		}
	}

	inicio, err := parseHoraEn(horario.HoraInicio, fecha, s.loc)
	if err != nil {
		return nil, err
	}
	fin, err := parseHoraEn(horario.HoraFin, fecha, s.loc)
	if err != nil {
		return nil, err
	}
	return &dto.VentanaLaboral{Inicio: inicio, Fin: fin}, nil
}

func (s *disponibilidadService) Bloqueos(ctx context.Context, empleadoID uuid.UUID, fecha time.Time) ([]dto.BloqueoHorario, error) {
	emp, err := s.empleados.FindByID(ctx, empleadoID)
	if err != nil {
		return nil, fmt.Errorf("empleado %s no encontrado", empleadoID)
	}

	bloqueos := make([]dto.BloqueoHorario, 0)
	for i := range emp.Ausencias {
		a := &emp.Ausencias[i]
		if a.DiaCompleto() || !a.CubreFecha(fecha.In(s.loc)) {
			continue
		}
		inicio, err := parseHoraEn(*a.HoraInicio, fecha, s.loc)
		if err != nil {
			return nil, err
		}
		fin, err := parseHoraEn(*a.HoraFin, fecha, s.loc)
		if err != nil {
			return nil, err
		}
		bloqueos = append(bloqueos, dto.BloqueoHorario{Inicio: inicio, Fin: fin, Motivo: a.Motivo})
	}
	return bloqueos, nil
}

func horarioDelDia(horarios []model.HorarioEmpleado, dia time.Weekday) *model.HorarioEmpleado {
	for i := range horarios {
		if horarios[i].DiaSemana == int(dia) {
			return &horarios[i]
		}
	}
	return nil
}
