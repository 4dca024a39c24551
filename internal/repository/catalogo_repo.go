package repository

// catalogo_repo.go
// Read-only access to the catalog entities the core consumes: clientes,
// empleados (with weekly schedules and absences), servicios (with eligibility
// and commission overrides), recursos, productos and business hours.
// Catalog writes belong to the admin panel, outside the core.

import (
	"context"

	"agendasalon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

type EmpleadoRepository interface {
	// FindByID loads the empleado with weekly horarios and ausencias.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empleado, error)
}

type empleadoRepo struct{ db *gorm.DB }

func NewEmpleadoRepository(db *gorm.DB) EmpleadoRepository { return &empleadoRepo{db: db} }

func (r *empleadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empleado, error) {
	var e model.Empleado
	err := r.db.WithContext(ctx).
		Preload("Horarios").
		Preload("Ausencias").
		First(&e, id).Error
	return &e, err
}

type ServicioRepository interface {
	// FindByID loads the servicio with recurso, eligibility list and
	// commission overrides.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Servicio, error)
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Servicio, error) {
	var s model.Servicio
	err := r.db.WithContext(ctx).
		Preload("Recurso").
		Preload("Habilitados").
		Preload("ComisionesEmpleado").
		First(&s, id).Error
	return &s, err
}

type RecursoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recurso, error)
}

type recursoRepo struct{ db *gorm.DB }

func NewRecursoRepository(db *gorm.DB) RecursoRepository { return &recursoRepo{db: db} }

func (r *recursoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recurso, error) {
	var rec model.Recurso
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

type ProductoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

type HorarioLocalRepository interface {
	// FindByDiaSemana returns the active business-hours window for a weekday,
	// or gorm.ErrRecordNotFound when the salon has no window configured.
	FindByDiaSemana(ctx context.Context, dia int) (*model.HorarioLocal, error)
}

type horarioLocalRepo struct{ db *gorm.DB }

func NewHorarioLocalRepository(db *gorm.DB) HorarioLocalRepository { return &horarioLocalRepo{db: db} }

func (r *horarioLocalRepo) FindByDiaSemana(ctx context.Context, dia int) (*model.HorarioLocal, error) {
	var h model.HorarioLocal
	err := r.db.WithContext(ctx).Where("dia_semana = ? AND activo = true", dia).First(&h).Error
	return &h, err
}
