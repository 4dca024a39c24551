package service

import (
	"context"
	"testing"
	"time"

	"agendasalon/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recursoFixture struct {
	servicios *stubServicioRepo
	recursos  *stubRecursoRepo
	turnos    *stubTurnoRepo
	svc       RecursoService

	lavado  *model.Servicio // requiere lavacabezas
	corte   *model.Servicio // sin recurso
	cabezas *model.Recurso
}

func newRecursoFixture(cantidad int) *recursoFixture {
	f := &recursoFixture{
		servicios: newStubServicioRepo(),
		recursos:  newStubRecursoRepo(),
		turnos:    newStubTurnoRepo(),
	}
	f.cabezas = &model.Recurso{ID: uuid.New(), Nombre: "Lavacabezas", Cantidad: cantidad, Activo: true}
	f.recursos.recursos[f.cabezas.ID] = f.cabezas

	f.lavado = &model.Servicio{ID: uuid.New(), Nombre: "Lavado", DuracionMinutos: 45, RecursoID: &f.cabezas.ID, Activo: true}
	f.corte = &model.Servicio{ID: uuid.New(), Nombre: "Corte", DuracionMinutos: 30, Activo: true}
	f.servicios.servicios[f.lavado.ID] = f.lavado
	f.servicios.servicios[f.corte.ID] = f.corte

	f.svc = NewRecursoService(f.servicios, f.recursos, f.turnos, testLoc)
	return f
}

func (f *recursoFixture) turnoPersistido(svc *model.Servicio, inicio time.Time, duracion int) *model.Turno {
	t := &model.Turno{
		ID:              uuid.New(),
		ClienteID:       uuid.New(),
		ServicioID:      svc.ID,
		EmpleadoID:      uuid.New(),
		Inicio:          inicio,
		DuracionMinutos: duracion,
		Estado:          model.TurnoPendiente,
		Servicio:        svc,
	}
	f.turnos.turnos[t.ID] = t
	return t
}

func TestCapacidadSinConflictoDentroDelLimite(t *testing.T) {
	f := newRecursoFixture(2)
	inicio := martes.Add(10 * time.Hour)

	conflictos, err := f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, conflictos)
}

func TestCapacidadConflictoPorPicoConcurrente(t *testing.T) {
	f := newRecursoFixture(2)
	inicio := martes.Add(10 * time.Hour)
	f.turnoPersistido(f.lavado, inicio.Add(-15*time.Minute), 60)

	conflictos, err := f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
	}, nil)
	require.NoError(t, err)
	require.Len(t, conflictos, 1)
	assert.Equal(t, "Lavacabezas", conflictos[0].RecursoNombre)
	assert.Equal(t, 2, conflictos[0].CantidadDisponible)
	assert.Equal(t, 3, conflictos[0].CantidadRequerida)
}

func TestCapacidadIgnoraServiciosSinRecurso(t *testing.T) {
	f := newRecursoFixture(1)
	inicio := martes.Add(10 * time.Hour)

	conflictos, err := f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.corte.ID, Inicio: inicio, DuracionMinutos: 30},
		{ServicioID: f.corte.ID, Inicio: inicio, DuracionMinutos: 30},
		{ServicioID: f.corte.ID, Inicio: inicio, DuracionMinutos: 30},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, conflictos)
}

func TestCapacidadTurnosConsecutivosNoSeAcumulan(t *testing.T) {
	f := newRecursoFixture(1)
	inicio := martes.Add(10 * time.Hour)
	f.turnoPersistido(f.lavado, inicio.Add(-45*time.Minute), 45) // termina justo al empezar

	conflictos, err := f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, conflictos)
}

func TestCapacidadExcluyeTurnosEnEdicion(t *testing.T) {
	f := newRecursoFixture(1)
	inicio := martes.Add(10 * time.Hour)
	editado := f.turnoPersistido(f.lavado, inicio, 45)

	// Sin exclusión el propio turno satura el recurso.
	conflictos, err := f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
	}, nil)
	require.NoError(t, err)
	require.Len(t, conflictos, 1)

	// Excluyéndolo (caso edición) no hay conflicto.
	conflictos, err = f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
	}, []uuid.UUID{editado.ID})
	require.NoError(t, err)
	assert.Empty(t, conflictos)
}

func TestCapacidadIgnoraTurnosCancelados(t *testing.T) {
	f := newRecursoFixture(1)
	inicio := martes.Add(10 * time.Hour)
	cancelado := f.turnoPersistido(f.lavado, inicio, 45)
	cancelado.Estado = model.TurnoCancelado

	conflictos, err := f.svc.VerificarCapacidad(context.Background(), []CandidatoRecurso{
		{ServicioID: f.lavado.ID, Inicio: inicio, DuracionMinutos: 45},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, conflictos)
}

func TestPicoConcurrencia(t *testing.T) {
	base := martes.Add(9 * time.Hour)
	iv := func(desdeMin, duracion int) intervalo {
		ini := base.Add(time.Duration(desdeMin) * time.Minute)
		return intervalo{inicio: ini, fin: ini.Add(time.Duration(duracion) * time.Minute)}
	}

	assert.Equal(t, 0, picoConcurrencia(nil))
	assert.Equal(t, 1, picoConcurrencia([]intervalo{iv(0, 30), iv(30, 30)}))
	assert.Equal(t, 2, picoConcurrencia([]intervalo{iv(0, 60), iv(30, 30)}))
	assert.Equal(t, 3, picoConcurrencia([]intervalo{iv(0, 90), iv(15, 60), iv(30, 30)}))
}
