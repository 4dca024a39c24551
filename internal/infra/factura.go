package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FacturaItem is one settlement line forwarded to the facturador.
type FacturaItem struct {
	Descripcion    string  `json:"descripcion"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Subtotal       float64 `json:"subtotal"`
}

// FacturaPayload is sent to the external invoicing provider. The provider
// owns the fiscal side (tax authority, numbering, legal format); we only
// hand over the settled amounts.
type FacturaPayload struct {
	PagoID       string        `json:"pago_id"`
	NumeroRecibo int           `json:"numero_recibo"`
	ClienteEmail string        `json:"cliente_email,omitempty"`
	Items        []FacturaItem `json:"items"`
	Subtotal     float64       `json:"subtotal"`
	Creditos     float64       `json:"creditos"`
	Total        float64       `json:"total"`
	Metodo       string        `json:"metodo"`
}

// FacturaResponse is returned by the provider on a successful emission.
type FacturaResponse struct {
	FacturaID string `json:"factura_id"`
	Resultado string `json:"resultado"` // "A" (aprobada) | "R" (rechazada)
}

// Facturador is the invoicing port. Settlement never blocks on it beyond a
// bounded timeout: failures degrade the Pago to factura pendiente and the
// retry cron picks it up.
type Facturador interface {
	Emitir(ctx context.Context, payload FacturaPayload) (*FacturaResponse, error)
}

// FacturaClient is the HTTP implementation of Facturador.
type FacturaClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFacturaClient(baseURL string, timeout time.Duration) *FacturaClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FacturaClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Emitir sends a POST to the provider and returns the emitted factura id.
func (c *FacturaClient) Emitir(ctx context.Context, payload FacturaPayload) (*FacturaResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("facturador: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/facturas", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("facturador: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facturador: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facturador: returned %d", resp.StatusCode)
	}

	var result FacturaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("facturador: decode response: %w", err)
	}
	return &result, nil
}
