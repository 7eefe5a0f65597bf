package dto

import "github.com/shopspring/decimal"

// OpeningRequest body para POST /api/opening.
type OpeningRequest struct {
	Barcode       string `json:"barcode"`
	WarehouseCode string `json:"warehouse_code"`
	Quantity      int64  `json:"quantity"`
}

// DispatchRequest body para POST /api/dispatch.
type DispatchRequest struct {
	Barcode       string          `json:"barcode"`
	WarehouseCode string          `json:"warehouse_code"`
	CustomerName  string          `json:"customer_name"`
	AWB           string          `json:"awb"`
	Quantity      int64           `json:"quantity"`
	CODAmount     decimal.Decimal `json:"cod_amount"`
}

// ReturnRequest body para POST /api/returns.
type ReturnRequest struct {
	Barcode       string `json:"barcode"`
	WarehouseCode string `json:"warehouse_code"`
	CustomerName  string `json:"customer_name"`
	AWB           string `json:"awb"`
	Quantity      int64  `json:"quantity"`
	Reason        string `json:"reason,omitempty"`
}

// DamageRequest body para POST /api/damage.
type DamageRequest struct {
	Barcode       string `json:"barcode"`
	WarehouseCode string `json:"warehouse_code"`
	Quantity      int64  `json:"quantity"`
	Reason        string `json:"reason,omitempty"`
}

// RecoveryRequest body para POST /api/recovery.
type RecoveryRequest struct {
	Barcode       string `json:"barcode"`
	WarehouseCode string `json:"warehouse_code"`
	Quantity      int64  `json:"quantity"`
	DamageID      *int64 `json:"damage_id,omitempty"`
}

// SelfTransferRequest body para POST /api/self-transfer.
type SelfTransferRequest struct {
	Barcode       string `json:"barcode"`
	FromWarehouse string `json:"from_warehouse"`
	ToWarehouse   string `json:"to_warehouse"`
	Quantity      int64  `json:"quantity"`
}

// CreatedResponse respuesta de las operaciones de movimiento.
type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// BalanceResponse respuesta de GET /api/stock/:barcode/balance.
type BalanceResponse struct {
	Barcode       string `json:"barcode"`
	WarehouseCode string `json:"warehouse_code"`
	Balance       int64  `json:"balance"`
	AsOf          string `json:"as_of,omitempty"` // RFC3339 cuando se consultó un corte histórico
}
