package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/stock/adjust.
// Quantity es con signo: positivo suma, negativo resta. Threshold opcional
// actualiza la línea de alerta de la fila.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	OutletID  string `json:"outlet_id"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason"`
	Threshold *int64 `json:"threshold,omitempty"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	ProductID string `json:"product_id"`
	OutletID  string `json:"outlet_id"`
	NewStock  int64  `json:"new_stock"`
}

// BulkAdjustRequest body para POST /api/inventory/stock/adjust/bulk.
type BulkAdjustRequest struct {
	Adjustments []AdjustStockRequest `json:"adjustments"`
}

// BulkItemSuccess ítem que se aplicó correctamente.
type BulkItemSuccess struct {
	Index     int    `json:"index"`
	ProductID string `json:"product_id"`
	OutletID  string `json:"outlet_id"`
	NewStock  int64  `json:"new_stock"`
}

// BulkItemFailure ítem que falló, con el detalle del error.
type BulkItemFailure struct {
	Index   int               `json:"index"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// BulkAdjustResponse resultado del lote: siempre ambas listas, nunca solo
// un booleano agregado.
type BulkAdjustResponse struct {
	Succeeded []BulkItemSuccess `json:"succeeded"`
	Failed    []BulkItemFailure `json:"failed"`
}

// TransferStockRequest body para POST /api/inventory/stock/transfer.
type TransferStockRequest struct {
	ProductID    string `json:"product_id"`
	FromOutletID string `json:"from_outlet_id"`
	ToOutletID   string `json:"to_outlet_id"`
	Quantity     int64  `json:"quantity"`
	Reason       string `json:"reason"`
}

// TransferStockResponse stocks resultantes de ambas sucursales.
type TransferStockResponse struct {
	ProductID        string `json:"product_id"`
	FromOutletID     string `json:"from_outlet_id"`
	ToOutletID       string `json:"to_outlet_id"`
	SourceStock      int64  `json:"new_source_stock"`
	DestinationStock int64  `json:"new_destination_stock"`
}

// StockRecordResponse registro de stock en listados y consultas.
type StockRecordResponse struct {
	ProductID string    `json:"product_id"`
	OutletID  string    `json:"outlet_id"`
	Stock     int64     `json:"stock"`
	Threshold int64     `json:"threshold"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementResponse movimiento en el historial.
type MovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	OutletID        string    `json:"outlet_id"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	Reason          string    `json:"reason"`
	UserID          string    `json:"user_id"`
	RelatedOutletID *string   `json:"related_outlet_id,omitempty"`
	TransactionID   string    `json:"transaction_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// LowStockEntryResponse entrada del reporte de stock bajo, enriquecida con
// datos del catálogo.
type LowStockEntryResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	OutletID    string          `json:"outlet_id"`
	OutletName  string          `json:"outlet_name"`
	Stock       int64           `json:"stock"`
	Threshold   int64           `json:"threshold"`
}
