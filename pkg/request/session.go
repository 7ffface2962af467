package request

type AddCartItem struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
}

type ChangeQuantity struct {
	Delta int `json:"delta" validate:"required,ne=0"`
}

type SetNote struct {
	Note string `json:"note" validate:"max=255"`
}
