package request

import "github.com/Alturino/lairai/pkg/response"

type UpdateTableStatus struct {
	Status response.TableStatus `json:"status" validate:"required,oneof=available occupied"`
}

type FindTables struct {
	Status response.TableStatus `validate:"omitempty,oneof=available occupied"`
}
