package response

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Envelope wraps every backend response body.
type Envelope struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Success bool            `json:"success"`
}

type DashboardStats struct {
	RecentOrders    []Order         `json:"recent_orders"`
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
	TotalTables     int             `json:"total_tables"`
	AvailableTables int             `json:"available_tables"`
	OccupiedTables  int             `json:"occupied_tables"`
	ActiveOrders    int             `json:"active_orders"`
	TodayOrders     int             `json:"today_orders"`
}
