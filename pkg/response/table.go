package response

import "time"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
)

type Table struct {
	CreatedAt time.Time   `json:"created_at"`
	Name      string      `json:"name"`
	Status    TableStatus `json:"status"`
	ID        int64       `json:"id"`
}
