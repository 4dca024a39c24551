package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemServicioRequest is an added service line at close-out.
type ItemServicioRequest struct {
	ServicioID     string          `json:"servicio_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	// EmpleadoID attributes the line's commission; defaults to the turno's
	// empleado when empty.
	EmpleadoID *string `json:"empleado_id" validate:"omitempty,uuid"`
}

// ItemProductoRequest is an added product line at close-out.
type ItemProductoRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	EmpleadoID     *string         `json:"empleado_id"     validate:"omitempty,uuid"`
}

// CerrarTurnoRequest settles a single turno.
// PrecioFinal overrides the list/discount price of the main servicio; when
// nil the servicio's list price applies. Penalidad is only accepted when the
// server-side lateness reaches the configured threshold. A giftcard and a
// seña are mutually exclusive: selecting a giftcard clears the seña.
type CerrarTurnoRequest struct {
	TurnoID         string                `json:"turno_id" validate:"required,uuid"`
	PrecioFinal     *decimal.Decimal      `json:"precio_final"`
	ServicioFinalID *string               `json:"servicio_final_id" validate:"omitempty,uuid"`
	EmpleadoFinalID *string               `json:"empleado_final_id" validate:"omitempty,uuid"`
	ItemsServicios  []ItemServicioRequest `json:"items_servicios"   validate:"omitempty,dive"`
	ItemsProductos  []ItemProductoRequest `json:"items_productos"   validate:"omitempty,dive"`
	Penalidad       *decimal.Decimal      `json:"penalidad"`
	SenaID          *string               `json:"sena_id"     validate:"omitempty,uuid"`
	GiftCardID      *string               `json:"giftcard_id" validate:"omitempty,uuid"`
	Metodo          string                `json:"metodo"      validate:"required,oneof=efectivo debito credito transferencia"`
	GenerarFactura  bool                  `json:"generar_factura"`
	ClienteEmail    *string               `json:"cliente_email" validate:"omitempty,email"`
	Observaciones   *string               `json:"observaciones"`
}

// MiembroGrupoRequest carries the per-member final price when settling a grupo.
type MiembroGrupoRequest struct {
	TurnoID         string           `json:"turno_id" validate:"required,uuid"`
	PrecioFinal     *decimal.Decimal `json:"precio_final"`
	ServicioFinalID *string          `json:"servicio_final_id" validate:"omitempty,uuid"`
	EmpleadoFinalID *string          `json:"empleado_final_id" validate:"omitempty,uuid"`
}

// CerrarGrupoRequest settles all member turnos of a grupo atomically.
type CerrarGrupoRequest struct {
	GrupoID        string                `json:"grupo_id" validate:"required,uuid"`
	Miembros       []MiembroGrupoRequest `json:"miembros" validate:"required,min=1,dive"`
	ItemsServicios []ItemServicioRequest `json:"items_servicios" validate:"omitempty,dive"`
	ItemsProductos []ItemProductoRequest `json:"items_productos" validate:"omitempty,dive"`
	Penalidad      *decimal.Decimal      `json:"penalidad"`
	SenaID         *string               `json:"sena_id"     validate:"omitempty,uuid"`
	GiftCardID     *string               `json:"giftcard_id" validate:"omitempty,uuid"`
	Metodo         string                `json:"metodo"      validate:"required,oneof=efectivo debito credito transferencia"`
	GenerarFactura bool                  `json:"generar_factura"`
	ClienteEmail   *string               `json:"cliente_email" validate:"omitempty,email"`
	Observaciones  *string               `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoItemResponse struct {
	Tipo           string          `json:"tipo"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ComisionMonto  decimal.Decimal `json:"comision_monto"`
}

type PagoResponse struct {
	ID              string             `json:"id"`
	NumeroRecibo    int                `json:"numero_recibo"`
	Metodo          string             `json:"metodo"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	CreditoGiftcard decimal.Decimal    `json:"credito_giftcard"`
	CreditoSena     decimal.Decimal    `json:"credito_sena"`
	Penalidad       decimal.Decimal    `json:"penalidad"`
	Total           decimal.Decimal    `json:"total"`
	EstadoFactura   string             `json:"estado_factura"`
	Observaciones   *string            `json:"observaciones,omitempty"`
	Items           []PagoItemResponse `json:"items"`
	CreatedAt       string             `json:"created_at"`
}

// CobroResponse is returned by POST /v1/cobros and /v1/cobros/grupo.
// FacturaPendiente with Advertencia signals a non-fatal invoicing failure:
// the settlement committed and the retry cron owns eventual completion.
type CobroResponse struct {
	Pago             PagoResponse    `json:"pago"`
	Turnos           []TurnoResponse `json:"turnos"`
	FacturaID        *string         `json:"factura_id,omitempty"`
	FacturaPendiente bool            `json:"factura_pendiente,omitempty"`
	Advertencia      *string         `json:"advertencia,omitempty"`
}
