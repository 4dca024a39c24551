package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agendasalon/internal/dto"
	"agendasalon/internal/infra"
	"agendasalon/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cobroFixture struct {
	turnos     *stubTurnoRepo
	servicios  *stubServicioRepo
	productos  *stubProductoRepo
	empleados  *stubEmpleadoRepo
	senas      *stubSenaRepo
	giftcards  *stubGiftCardRepo
	pagos      *stubPagoRepo
	facturador *stubFacturador
	svc        *cobroService

	cliente  *model.Cliente
	empleado *model.Empleado
	corte    *model.Servicio // $9000, 30% porcentaje
	color    *model.Servicio // $25000, comisión fija $500
}

func newCobroFixture(t *testing.T) *cobroFixture {
	t.Helper()
	f := &cobroFixture{
		turnos:     newStubTurnoRepo(),
		servicios:  newStubServicioRepo(),
		productos:  newStubProductoRepo(),
		empleados:  newStubEmpleadoRepo(),
		senas:      newStubSenaRepo(),
		giftcards:  newStubGiftCardRepo(),
		pagos:      newStubPagoRepo(),
		facturador: &stubFacturador{},
	}

	email := "ana@example.com"
	f.cliente = &model.Cliente{ID: uuid.New(), Nombre: "Ana López", Email: &email, Activo: true}
	f.empleado = &model.Empleado{ID: uuid.New(), Nombre: "Carla", Activo: true}
	f.empleados.empleados[f.empleado.ID] = f.empleado

	f.corte = &model.Servicio{
		ID: uuid.New(), Nombre: "Corte", DuracionMinutos: 30,
		Precio:       decimal.NewFromInt(9000),
		ComisionTipo: model.ComisionPorcentaje, ComisionValor: decimal.NewFromInt(30),
		Activo: true,
	}
	f.color = &model.Servicio{
		ID: uuid.New(), Nombre: "Color", DuracionMinutos: 90,
		Precio:       decimal.NewFromInt(25000),
		ComisionTipo: model.ComisionFija, ComisionValor: decimal.NewFromInt(500),
		Activo: true,
	}
	f.servicios.servicios[f.corte.ID] = f.corte
	f.servicios.servicios[f.color.ID] = f.color

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	svc := NewCobroService(f.turnos, f.servicios, f.productos, f.empleados,
		f.senas, f.giftcards, f.pagos, f.facturador, cb, nil, 2*time.Second, 15)
	f.svc = svc.(*cobroService)
	f.svc.now = func() time.Time { return martes.Add(10 * time.Hour) }
	return f
}

func (f *cobroFixture) turnoEnCurso(svc *model.Servicio, tardanza int) *model.Turno {
	inicio := martes.Add(10 * time.Hour)
	iniciado := inicio.Add(time.Duration(tardanza) * time.Minute)
	tn := &model.Turno{
		ID: uuid.New(), ClienteID: f.cliente.ID, ServicioID: svc.ID,
		EmpleadoID: f.empleado.ID, Inicio: inicio, DuracionMinutos: svc.DuracionMinutos,
		Estado: model.TurnoEnCurso, Confirmacion: model.ConfirmacionNoEnviada,
		IniciadoEn: &iniciado, MinutosTardanza: tardanza,
		Cliente: f.cliente, Servicio: svc, Empleado: f.empleado,
	}
	f.turnos.turnos[tn.ID] = tn
	return tn
}

func (f *cobroFixture) cerrarRequest(tn *model.Turno) dto.CerrarTurnoRequest {
	return dto.CerrarTurnoRequest{TurnoID: tn.ID.String(), Metodo: "efectivo"}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ── Cierre simple ────────────────────────────────────────────────────────────

func TestCerrarTurnoRequiereEnCurso(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	tn.Estado = model.TurnoPendiente

	_, err := f.svc.CerrarTurno(context.Background(), f.cerrarRequest(tn))
	assert.Equal(t, ValidacionEstadoInvalido, rechazoDe(t, err).Tipo)
	assert.Empty(t, f.pagos.pagos)
}

func TestCerrarTurnoPrecioDeLista(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)

	resp, err := f.svc.CerrarTurno(context.Background(), f.cerrarRequest(tn))
	require.NoError(t, err)

	assert.True(t, resp.Pago.Subtotal.Equal(dec(9000)))
	assert.True(t, resp.Pago.Total.Equal(dec(9000)))
	assert.Equal(t, 1, resp.Pago.NumeroRecibo)
	assert.Equal(t, model.FacturaNinguna, resp.Pago.EstadoFactura)
	require.Len(t, resp.Pago.Items, 1)
	assert.True(t, resp.Pago.Items[0].ComisionMonto.Equal(dec(2700))) // 30% de 9000
	assert.Equal(t, model.TurnoCompletado, tn.Estado)
}

func TestCerrarTurnoGuardaObservaciones(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	req := f.cerrarRequest(tn)
	obs := "pagó con billete de 10000, vuelto entregado"
	req.Observaciones = &obs

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Pago.Observaciones)
	assert.Equal(t, obs, *resp.Pago.Observaciones)

	require.Len(t, f.pagos.pagos, 1)
	for _, p := range f.pagos.pagos {
		require.NotNil(t, p.Observaciones)
		assert.Equal(t, obs, *p.Observaciones)
	}
}

func TestCerrarTurnoConPrecioFinal(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	req := f.cerrarRequest(tn)
	precio := dec(8000)
	req.PrecioFinal = &precio

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.Subtotal.Equal(dec(8000)))
	// La comisión se calcula sobre el precio cobrado, no el de lista.
	assert.True(t, resp.Pago.Items[0].ComisionMonto.Equal(dec(2400)))
}

func TestCerrarTurnoPrecioFinalNegativoRechaza(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	req := f.cerrarRequest(tn)
	precio := dec(-100)
	req.PrecioFinal = &precio

	_, err := f.svc.CerrarTurno(context.Background(), req)
	assert.Error(t, err)
	assert.Equal(t, model.TurnoEnCurso, tn.Estado)
}

func TestCerrarTurnoConExtras(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	shampoo := &model.Producto{ID: uuid.New(), Nombre: "Shampoo", Precio: dec(4500), Activo: true}
	f.productos.productos[shampoo.ID] = shampoo

	req := f.cerrarRequest(tn)
	req.ItemsServicios = []dto.ItemServicioRequest{
		{ServicioID: f.color.ID.String(), Cantidad: 2, PrecioUnitario: dec(25000)},
	}
	req.ItemsProductos = []dto.ItemProductoRequest{
		{ProductoID: shampoo.ID.String(), Cantidad: 1, PrecioUnitario: dec(4500)},
	}

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	// 9000 + 2×25000 + 4500
	assert.True(t, resp.Pago.Subtotal.Equal(dec(63500)))
	require.Len(t, resp.Pago.Items, 3)

	// Comisión fija por unidad para el color agregado; el producto no comisiona.
	assert.True(t, resp.Pago.Items[1].ComisionMonto.Equal(dec(1000)))
	assert.True(t, resp.Pago.Items[2].ComisionMonto.IsZero())
}

func TestComisionConOverridePorEmpleado(t *testing.T) {
	f := newCobroFixture(t)
	f.corte.ComisionesEmpleado = []model.ComisionEmpleado{{
		ServicioID: f.corte.ID, EmpleadoID: f.empleado.ID,
		Tipo: model.ComisionPorcentaje, Valor: dec(40),
	}}
	tn := f.turnoEnCurso(f.corte, 0)

	resp, err := f.svc.CerrarTurno(context.Background(), f.cerrarRequest(tn))
	require.NoError(t, err)
	assert.True(t, resp.Pago.Items[0].ComisionMonto.Equal(dec(3600)))
}

// ── Penalidad ────────────────────────────────────────────────────────────────

func TestPenalidadConTardanzaSuficiente(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 20)
	req := f.cerrarRequest(tn)
	pen := dec(1500)
	req.Penalidad = &pen

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.Subtotal.Equal(dec(10500)))
	assert.True(t, resp.Pago.Penalidad.Equal(dec(1500)))
	assert.True(t, tn.Penalidad.Equal(dec(1500)))
}

func TestPenalidadBajoElUmbralRechaza(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 14)
	req := f.cerrarRequest(tn)
	pen := dec(1500)
	req.Penalidad = &pen

	_, err := f.svc.CerrarTurno(context.Background(), req)
	assert.Equal(t, ValidacionEstadoInvalido, rechazoDe(t, err).Tipo)
	assert.Empty(t, f.pagos.pagos)
}

func TestPenalidadNegativaRechaza(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 20)
	req := f.cerrarRequest(tn)
	pen := dec(-1500)
	req.Penalidad = &pen

	_, err := f.svc.CerrarTurno(context.Background(), req)
	assert.ErrorContains(t, err, "penalidad")
	assert.Empty(t, f.pagos.pagos)
}

// ── Créditos ─────────────────────────────────────────────────────────────────

func (f *cobroFixture) senaPendiente(monto int64) *model.Sena {
	s := &model.Sena{
		ID: uuid.New(), ClienteID: f.cliente.ID, ServicioID: f.corte.ID,
		Monto: dec(monto), Estado: model.SenaPendiente, MetodoPago: "efectivo",
	}
	f.senas.senas[s.ID] = s
	return s
}

func (f *cobroFixture) giftcardActiva(servicios ...uuid.UUID) *model.GiftCard {
	g := &model.GiftCard{
		ID: uuid.New(), Numero: "GC-0001", MontoTotal: dec(9000),
		ValidaDesde: martes.AddDate(0, -1, 0), ValidaHasta: martes.AddDate(0, 1, 0),
		Estado: model.GiftCardActiva,
	}
	for _, sid := range servicios {
		g.Servicios = append(g.Servicios, model.GiftCardServicio{
			ID: uuid.New(), GiftCardID: g.ID, ServicioID: sid,
		})
	}
	f.giftcards.cards[g.ID] = g
	return g
}

func TestSenaAcreditaSuMonto(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	sena := f.senaPendiente(3000)
	req := f.cerrarRequest(tn)
	sid := sena.ID.String()
	req.SenaID = &sid

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.CreditoSena.Equal(dec(3000)))
	assert.True(t, resp.Pago.Total.Equal(dec(6000)))
	assert.Equal(t, model.SenaAplicada, sena.Estado)
	assert.Contains(t, f.senas.aplicadas, sena.ID)
}

func TestSenaDeOtroClienteRechaza(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	sena := f.senaPendiente(3000)
	sena.ClienteID = uuid.New()
	req := f.cerrarRequest(tn)
	sid := sena.ID.String()
	req.SenaID = &sid

	_, err := f.svc.CerrarTurno(context.Background(), req)
	assert.Equal(t, ValidacionEstadoInvalido, rechazoDe(t, err).Tipo)
}

func TestTotalNuncaNegativo(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	sena := f.senaPendiente(12000) // mayor que el subtotal de 9000
	req := f.cerrarRequest(tn)
	sid := sena.ID.String()
	req.SenaID = &sid

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.CreditoSena.Equal(dec(12000)))
	assert.True(t, resp.Pago.Total.IsZero())
}

func TestGiftCardCubreLaUnidadYSeAgota(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	card := f.giftcardActiva(f.corte.ID)
	req := f.cerrarRequest(tn)
	gid := card.ID.String()
	req.GiftCardID = &gid

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.CreditoGiftcard.Equal(dec(9000)))
	assert.True(t, resp.Pago.Total.IsZero())
	assert.Len(t, f.giftcards.consumidas[card.ID], 1)
	assert.True(t, f.giftcards.agotadas[card.ID])
	assert.Equal(t, model.GiftCardRedimida, card.Estado)
}

func TestGiftCardCoberturaParcial(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	card := f.giftcardActiva(f.corte.ID)
	req := f.cerrarRequest(tn)
	gid := card.ID.String()
	req.GiftCardID = &gid
	req.ItemsServicios = []dto.ItemServicioRequest{
		{ServicioID: f.color.ID.String(), Cantidad: 1, PrecioUnitario: dec(25000)},
	}

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	// La unidad de la card cubre el corte; el color se paga completo.
	assert.True(t, resp.Pago.CreditoGiftcard.Equal(dec(9000)))
	assert.True(t, resp.Pago.Total.Equal(dec(25000)))
}

func TestGiftCardSinUnidadesAplicablesRechaza(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	card := f.giftcardActiva(f.color.ID) // no cubre corte
	req := f.cerrarRequest(tn)
	gid := card.ID.String()
	req.GiftCardID = &gid

	_, err := f.svc.CerrarTurno(context.Background(), req)
	assert.Equal(t, ValidacionEstadoInvalido, rechazoDe(t, err).Tipo)
	assert.Empty(t, f.giftcards.consumidas)
}

func TestGiftCardFueraDeVigenciaRechaza(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	card := f.giftcardActiva(f.corte.ID)
	card.ValidaHasta = martes.AddDate(0, 0, -1)
	req := f.cerrarRequest(tn)
	gid := card.ID.String()
	req.GiftCardID = &gid

	_, err := f.svc.CerrarTurno(context.Background(), req)
	assert.Equal(t, ValidacionEstadoInvalido, rechazoDe(t, err).Tipo)
}

func TestGiftCardGanaSobreSena(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	sena := f.senaPendiente(3000)
	card := f.giftcardActiva(f.corte.ID)
	req := f.cerrarRequest(tn)
	sid := sena.ID.String()
	gid := card.ID.String()
	req.SenaID = &sid
	req.GiftCardID = &gid

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.CreditoGiftcard.Equal(dec(9000)))
	assert.True(t, resp.Pago.CreditoSena.IsZero())
	// La seña queda intacta para un cobro futuro.
	assert.Equal(t, model.SenaPendiente, sena.Estado)
	assert.Empty(t, f.senas.aplicadas)
}

// ── Facturación ──────────────────────────────────────────────────────────────

func TestFacturaEmitida(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	req := f.cerrarRequest(tn)
	req.GenerarFactura = true

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.FacturaID)
	assert.Equal(t, "FC-0001-00001234", *resp.FacturaID)
	assert.Equal(t, model.FacturaEmitida, resp.Pago.EstadoFactura)
	assert.False(t, resp.FacturaPendiente)
	assert.Equal(t, 1, f.facturador.llamadas)
	assert.Equal(t, float64(9000), f.facturador.ultimo.Total)
}

func TestFacturaFallidaNoBloqueaElCobro(t *testing.T) {
	f := newCobroFixture(t)
	f.facturador.failWith = errors.New("connection refused")
	tn := f.turnoEnCurso(f.corte, 0)
	req := f.cerrarRequest(tn)
	req.GenerarFactura = true

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)

	// El cobro se confirmó igual; la factura quedó para el reintento.
	assert.Equal(t, model.TurnoCompletado, tn.Estado)
	assert.True(t, resp.FacturaPendiente)
	require.NotNil(t, resp.Advertencia)
	assert.Equal(t, model.FacturaPendiente, resp.Pago.EstadoFactura)

	pago := f.pagos.pagos[uuid.MustParse(resp.Pago.ID)]
	assert.Equal(t, 1, pago.RetryCount)
	require.NotNil(t, pago.NextRetryAt)
	require.NotNil(t, pago.LastError)
}

func TestFacturaRechazadaEsTerminal(t *testing.T) {
	f := newCobroFixture(t)
	f.facturador.rechaza = true
	tn := f.turnoEnCurso(f.corte, 0)
	req := f.cerrarRequest(tn)
	req.GenerarFactura = true

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.FacturaError, resp.Pago.EstadoFactura)
	assert.Nil(t, resp.FacturaID)
	require.NotNil(t, resp.Advertencia)

	// Un rechazo del proveedor no se reintenta.
	pago := f.pagos.pagos[uuid.MustParse(resp.Pago.ID)]
	assert.Nil(t, pago.NextRetryAt)
}

func TestSinGenerarFacturaNoLlamaAlFacturador(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)

	resp, err := f.svc.CerrarTurno(context.Background(), f.cerrarRequest(tn))
	require.NoError(t, err)
	assert.Equal(t, model.FacturaNinguna, resp.Pago.EstadoFactura)
	assert.Equal(t, 0, f.facturador.llamadas)
}

func TestTotalCeroNoLlamaAlFacturador(t *testing.T) {
	f := newCobroFixture(t)
	tn := f.turnoEnCurso(f.corte, 0)
	sena := f.senaPendiente(9000) // cubre el corte completo
	req := f.cerrarRequest(tn)
	sid := sena.ID.String()
	req.SenaID = &sid
	req.GenerarFactura = true

	resp, err := f.svc.CerrarTurno(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Pago.Total.IsZero())
	assert.Equal(t, model.FacturaNinguna, resp.Pago.EstadoFactura)
	assert.Equal(t, 0, f.facturador.llamadas)
	assert.Equal(t, model.TurnoCompletado, tn.Estado)
}

// ── Grupos ───────────────────────────────────────────────────────────────────

func (f *cobroFixture) grupoEnCurso(tardanzas ...int) (uuid.UUID, []*model.Turno) {
	grupoID := uuid.New()
	miembros := make([]*model.Turno, 0, len(tardanzas))
	for _, tardanza := range tardanzas {
		tn := f.turnoEnCurso(f.corte, tardanza)
		tn.GrupoID = &grupoID
		miembros = append(miembros, tn)
	}
	return grupoID, miembros
}

func TestCerrarGrupo(t *testing.T) {
	f := newCobroFixture(t)
	grupoID, miembros := f.grupoEnCurso(0, 0)

	precio := dec(8000)
	resp, err := f.svc.CerrarGrupo(context.Background(), dto.CerrarGrupoRequest{
		GrupoID: grupoID.String(),
		Miembros: []dto.MiembroGrupoRequest{
			{TurnoID: miembros[0].ID.String(), PrecioFinal: &precio},
		},
		Metodo: "debito",
	})
	require.NoError(t, err)

	// 8000 del override + 9000 de lista para el miembro sin override.
	assert.True(t, resp.Pago.Subtotal.Equal(dec(17000)))
	require.Len(t, resp.Turnos, 2)
	for _, tr := range resp.Turnos {
		assert.Equal(t, model.TurnoCompletado, tr.Estado)
	}

	pago := f.pagos.pagos[uuid.MustParse(resp.Pago.ID)]
	require.NotNil(t, pago.GrupoID)
	assert.Equal(t, grupoID, *pago.GrupoID)
	assert.Nil(t, pago.TurnoID)
}

func TestCerrarGrupoMiembroPendienteAborta(t *testing.T) {
	f := newCobroFixture(t)
	grupoID, miembros := f.grupoEnCurso(0, 0)
	miembros[1].Estado = model.TurnoPendiente

	_, err := f.svc.CerrarGrupo(context.Background(), dto.CerrarGrupoRequest{
		GrupoID: grupoID.String(),
		Miembros: []dto.MiembroGrupoRequest{
			{TurnoID: miembros[0].ID.String()},
		},
		Metodo: "efectivo",
	})
	assert.Equal(t, ValidacionEstadoInvalido, rechazoDe(t, err).Tipo)
	assert.Empty(t, f.pagos.pagos)
}

func TestCerrarGrupoIgnoraCancelados(t *testing.T) {
	f := newCobroFixture(t)
	grupoID, miembros := f.grupoEnCurso(0, 0)
	miembros[1].Estado = model.TurnoCancelado

	resp, err := f.svc.CerrarGrupo(context.Background(), dto.CerrarGrupoRequest{
		GrupoID: grupoID.String(),
		Miembros: []dto.MiembroGrupoRequest{
			{TurnoID: miembros[0].ID.String()},
		},
		Metodo: "efectivo",
	})
	require.NoError(t, err)
	assert.True(t, resp.Pago.Subtotal.Equal(dec(9000)))
	require.Len(t, resp.Turnos, 1)
	assert.Equal(t, model.TurnoCancelado, miembros[1].Estado)
}

func TestCerrarGrupoPenalidadPorMaximaTardanza(t *testing.T) {
	f := newCobroFixture(t)
	grupoID, miembros := f.grupoEnCurso(5, 20)
	pen := dec(2000)

	resp, err := f.svc.CerrarGrupo(context.Background(), dto.CerrarGrupoRequest{
		GrupoID:   grupoID.String(),
		Miembros:  []dto.MiembroGrupoRequest{{TurnoID: miembros[0].ID.String()}},
		Penalidad: &pen,
		Metodo:    "efectivo",
	})
	require.NoError(t, err)
	assert.True(t, resp.Pago.Penalidad.Equal(dec(2000)))
	assert.True(t, resp.Pago.Subtotal.Equal(dec(20000)))
}
