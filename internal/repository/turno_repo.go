package repository

import (
	"context"
	"errors"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrTurnoSolapado is returned when the commit-time constraint rejects a
// create/edit because a concurrent writer took the empleado/slot first.
// Pre-commit validation is advisory; this is the authoritative guard.
var ErrTurnoSolapado = errors.New("el empleado ya tiene un turno que se superpone en ese horario")

type TurnoRepository interface {
	// CreateBatch persists all turnos of one request inside tx.
	CreateBatch(ctx context.Context, tx *gorm.DB, turnos []*model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindByGrupoID(ctx context.Context, grupoID uuid.UUID) ([]model.Turno, error)
	// ListActivosEntre returns non-cancelled turnos overlapping [desde, hasta),
	// excluding the given ids, with Servicio preloaded. Feeds the resource
	// capacity sweep.
	ListActivosEntre(ctx context.Context, desde, hasta time.Time, excluir []uuid.UUID) ([]model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
	UpdateTx(tx *gorm.DB, t *model.Turno) error
	List(ctx context.Context, filter dto.TurnoFilter) ([]model.Turno, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) DB() *gorm.DB { return r.db }

func (r *turnoRepo) CreateBatch(ctx context.Context, tx *gorm.DB, turnos []*model.Turno) error {
	for _, t := range turnos {
		if err := tx.WithContext(ctx).Create(t).Error; err != nil {
			return traducirConflicto(err)
		}
	}
	return nil
}

// traducirConflicto maps the postgres exclusion/unique violations raised by
// the overlapping-turno constraint to ErrTurnoSolapado.
func traducirConflicto(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23P01 = exclusion_violation, 23505 = unique_violation
		if pgErr.Code == "23P01" || pgErr.Code == "23505" {
			return ErrTurnoSolapado
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTurnoSolapado
	}
	return err
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Servicio").
		Preload("Servicio.Habilitados").
		Preload("Servicio.ComisionesEmpleado").
		Preload("Empleado").
		First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindByGrupoID(ctx context.Context, grupoID uuid.UUID) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Servicio").
		Preload("Servicio.ComisionesEmpleado").
		Preload("Empleado").
		Where("grupo_id = ?", grupoID).
		Order("created_at ASC").
		Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) ListActivosEntre(ctx context.Context, desde, hasta time.Time, excluir []uuid.UUID) ([]model.Turno, error) {
	var turnos []model.Turno
	q := r.db.WithContext(ctx).
		Preload("Servicio").
		Where("estado <> ?", model.TurnoCancelado).
		Where("inicio < ? AND inicio + make_interval(mins => duracion_minutos) > ?", hasta, desde)
	if len(excluir) > 0 {
		q = q.Where("id NOT IN ?", excluir)
	}
	err := q.Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return traducirConflicto(r.db.WithContext(ctx).Save(t).Error)
}

func (r *turnoRepo) UpdateTx(tx *gorm.DB, t *model.Turno) error {
	return traducirConflicto(tx.Save(t).Error)
}

func (r *turnoRepo) List(ctx context.Context, filter dto.TurnoFilter) ([]model.Turno, int64, error) {
	var turnos []model.Turno
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Turno{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(inicio) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(inicio) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Cliente").Preload("Servicio").Preload("Empleado").
		Order("inicio ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&turnos).Error

	return turnos, total, err
}
