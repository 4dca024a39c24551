package main

// Seeds a development database with a demo catalog: an admin user, the
// salon's business hours, empleados with weekly schedules, recursos and
// servicios. Idempotent per entity name — safe to re-run.

import (
	"os"
	"time"

	"agendasalon/internal/config"
	"agendasalon/internal/infra"
	"agendasalon/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	seedAdmin(db)
	seedHorariosLocal(db)
	recursos := seedRecursos(db)
	empleados := seedEmpleados(db)
	seedServicios(db, recursos, empleados)
	seedProductos(db)

	log.Info().Msg("seed completed")
}

func seedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&model.Usuario{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("agendasalon2026"), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}
	admin := &model.Usuario{
		Username:     "admin",
		Nombre:       "Administrador",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Msg("admin user created (admin / agendasalon2026)")
}

func seedHorariosLocal(db *gorm.DB) {
	// Martes a sábado 09:00–20:00, closed domingo y lunes.
	for dia := 2; dia <= 6; dia++ {
		var count int64
		db.Model(&model.HorarioLocal{}).Where("dia_semana = ?", dia).Count(&count)
		if count > 0 {
			continue
		}
		h := &model.HorarioLocal{DiaSemana: dia, Apertura: "09:00", Cierre: "20:00", Activo: true}
		if err := db.Create(h).Error; err != nil {
			log.Fatal().Err(err).Msg("seed horario local")
		}
	}
}

func seedRecursos(db *gorm.DB) map[string]*model.Recurso {
	out := make(map[string]*model.Recurso)
	for _, r := range []*model.Recurso{
		{Nombre: "Sillón de corte", Cantidad: 4, Activo: true},
		{Nombre: "Lavacabezas", Cantidad: 2, Activo: true},
		{Nombre: "Cabina de estética", Cantidad: 1, Activo: true},
	} {
		var existing model.Recurso
		if err := db.Where("nombre = ?", r.Nombre).First(&existing).Error; err == nil {
			out[r.Nombre] = &existing
			continue
		}
		if err := db.Create(r).Error; err != nil {
			log.Fatal().Err(err).Msg("seed recurso")
		}
		out[r.Nombre] = r
	}
	return out
}

func seedEmpleados(db *gorm.DB) map[string]*model.Empleado {
	out := make(map[string]*model.Empleado)
	nombres := []string{"Carla Méndez", "Julián Torres", "Sofía Ruiz"}
	for _, nombre := range nombres {
		var existing model.Empleado
		if err := db.Where("nombre = ?", nombre).First(&existing).Error; err == nil {
			out[nombre] = &existing
			continue
		}
		e := &model.Empleado{Nombre: nombre, Activo: true}
		if err := db.Create(e).Error; err != nil {
			log.Fatal().Err(err).Msg("seed empleado")
		}
		// Martes a sábado 09:00–18:00
		for dia := 2; dia <= 6; dia++ {
			h := &model.HorarioEmpleado{EmpleadoID: e.ID, DiaSemana: dia, HoraInicio: "09:00", HoraFin: "18:00"}
			if err := db.Create(h).Error; err != nil {
				log.Fatal().Err(err).Msg("seed horario empleado")
			}
		}
		out[nombre] = e
	}
	return out
}

func seedServicios(db *gorm.DB, recursos map[string]*model.Recurso, empleados map[string]*model.Empleado) {
	precio := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	type spec struct {
		nombre   string
		duracion int
		precio   int64
		recurso  string
		comision int64 // porcentaje
	}
	for _, s := range []spec{
		{"Corte", 30, 9000, "Sillón de corte", 30},
		{"Color", 90, 25000, "Sillón de corte", 25},
		{"Lavado y brushing", 45, 12000, "Lavacabezas", 30},
		{"Limpieza facial", 60, 18000, "Cabina de estética", 35},
	} {
		var count int64
		db.Model(&model.Servicio{}).Where("nombre = ?", s.nombre).Count(&count)
		if count > 0 {
			continue
		}
		svc := &model.Servicio{
			Nombre:          s.nombre,
			DuracionMinutos: s.duracion,
			Precio:          precio(s.precio),
			ComisionTipo:    model.ComisionPorcentaje,
			ComisionValor:   precio(s.comision),
			Activo:          true,
		}
		if r, ok := recursos[s.recurso]; ok {
			svc.RecursoID = &r.ID
		}
		if err := db.Create(svc).Error; err != nil {
			log.Fatal().Err(err).Msg("seed servicio")
		}
	}

	// La limpieza facial solo la realiza Sofía.
	var facial model.Servicio
	if err := db.Where("nombre = ?", "Limpieza facial").First(&facial).Error; err == nil {
		if sofia, ok := empleados["Sofía Ruiz"]; ok {
			var count int64
			db.Model(&model.ServicioEmpleado{}).Where("servicio_id = ?", facial.ID).Count(&count)
			if count == 0 {
				hab := &model.ServicioEmpleado{ServicioID: facial.ID, EmpleadoID: sofia.ID}
				if err := db.Create(hab).Error; err != nil {
					log.Fatal().Err(err).Msg("seed habilitacion")
				}
			}
		}
	}
}

func seedProductos(db *gorm.DB) {
	for _, p := range []*model.Producto{
		{Nombre: "Shampoo reparador 500ml", Precio: decimal.NewFromInt(8500), ComisionTipo: model.ComisionPorcentaje, ComisionValor: decimal.NewFromInt(10), Activo: true},
		{Nombre: "Máscara nutritiva", Precio: decimal.NewFromInt(11000), ComisionTipo: model.ComisionPorcentaje, ComisionValor: decimal.NewFromInt(10), Activo: true},
	} {
		var count int64
		db.Model(&model.Producto{}).Where("nombre = ?", p.Nombre).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(p).Error; err != nil {
			log.Fatal().Err(err).Msg("seed producto")
		}
	}
}
