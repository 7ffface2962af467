package session

import "github.com/Alturino/lairai/pkg/response"

// Mode is the discriminator of a State, used in views and metrics.
type Mode string

const (
	ModeClosed     Mode = "closed"
	ModeHydrating  Mode = "hydrating"
	ModeEditing    Mode = "editing"
	ModeCreating   Mode = "creating"
	ModeLoadFailed Mode = "load_failed"
)

// State is one of Closed, Hydrating, Editing, Creating or LoadFailed. An
// editing state always carries the order it edits.
type State interface {
	Mode() Mode
	isState()
}

type Closed struct{}

type Hydrating struct {
	TableID int64
}

// Editing means the table has a pending order on the backend and the cart
// replaces its items on submit.
type Editing struct {
	Order   response.Order
	TableID int64
}

// Creating means the table has no pending order and submit creates one.
type Creating struct {
	TableID int64
}

type LoadFailed struct {
	Err     error
	TableID int64
}

func (Closed) Mode() Mode     { return ModeClosed }
func (Hydrating) Mode() Mode  { return ModeHydrating }
func (Editing) Mode() Mode    { return ModeEditing }
func (Creating) Mode() Mode   { return ModeCreating }
func (LoadFailed) Mode() Mode { return ModeLoadFailed }

func (Closed) isState()     {}
func (Hydrating) isState()  {}
func (Editing) isState()    {}
func (Creating) isState()   {}
func (LoadFailed) isState() {}
