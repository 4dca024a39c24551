package infra

import (
	"fmt"

	"agendasalon/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (the overlap exclusion constraint, the recibo sequence, and
// partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies AutoMigrate plus the schema patches. Exposed
// separately so integration tests can migrate a container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Empleado{},
		&model.HorarioEmpleado{},
		&model.Ausencia{},
		&model.Recurso{},
		&model.HorarioLocal{},
		&model.Servicio{},
		&model.ServicioEmpleado{},
		&model.ComisionEmpleado{},
		&model.Producto{},
		&model.Turno{},
		&model.Sena{},
		&model.GiftCard{},
		&model.GiftCardServicio{},
		&model.Pago{},
		&model.PagoItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The exclusion constraint is the commit-time overlap guard: two concurrent
// transactions booking the same empleado into overlapping ranges cannot both
// commit, no matter what the application-level checks saw.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"enable btree_gist",
			`CREATE EXTENSION IF NOT EXISTS btree_gist`},
		{"turnos overlap exclusion constraint", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'excl_turnos_empleado_solapado') THEN
    ALTER TABLE turnos ADD CONSTRAINT excl_turnos_empleado_solapado
      EXCLUDE USING gist (
        empleado_id WITH =,
        tsrange(inicio, inicio + make_interval(mins => duracion_minutos)) WITH &&
      )
      WHERE (estado <> 'cancelado');
  END IF;
END $$`},
		{"recibo number sequence",
			`CREATE SEQUENCE IF NOT EXISTS pagos_numero_recibo_seq START 1`},
		{"partial index for the retry cron query", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pagos_pending_retry') THEN
    CREATE INDEX idx_pagos_pending_retry
        ON pagos (next_retry_at)
        WHERE estado_factura = 'pendiente' AND next_retry_at IS NOT NULL;
  END IF;
END $$`},
		{"turnos day-range index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_turnos_inicio') THEN
    CREATE INDEX idx_turnos_inicio ON turnos (inicio);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
