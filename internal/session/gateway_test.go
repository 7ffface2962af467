package session

import (
	"context"
	"sync"

	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

// activeReply answers one held ActiveOrder call.
type activeReply struct {
	err    error
	active response.ActiveOrder
	found  bool
}

type fakeGateway struct {
	active      response.ActiveOrder
	found       bool
	activeErr   error
	submitErr   error
	created     []request.CreateOrder
	updated     []request.UpdateOrderItems
	updatedIDs  []int64
	activeCalls int
	// block, when set, holds submissions until it is closed.
	block   chan struct{}
	started chan struct{}
	// hydrations, when set, hands every ActiveOrder call's reply channel to
	// the test, which answers it.
	hydrations chan chan activeReply
	mu         sync.Mutex
}

func (g *fakeGateway) ActiveOrder(c context.Context, tableID int64) (response.ActiveOrder, bool, error) {
	if g.hydrations != nil {
		reply := make(chan activeReply)
		g.hydrations <- reply
		r := <-reply
		return r.active, r.found, r.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.activeCalls++
	return g.active, g.found, g.activeErr
}

func (g *fakeGateway) wait() {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
}

func (g *fakeGateway) CreateOrder(c context.Context, param request.CreateOrder) (response.Order, error) {
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, param)
	if g.submitErr != nil {
		return response.Order{}, g.submitErr
	}
	return response.Order{ID: 900, TableID: param.TableID, Status: response.OrderStatusPending}, nil
}

func (g *fakeGateway) UpdateOrderItems(
	c context.Context,
	orderID int64,
	param request.UpdateOrderItems,
) (response.Order, error) {
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updated = append(g.updated, param)
	g.updatedIDs = append(g.updatedIDs, orderID)
	if g.submitErr != nil {
		return response.Order{}, g.submitErr
	}
	return response.Order{ID: orderID, Status: response.OrderStatusPending}, nil
}

func (g *fakeGateway) requests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.created) + len(g.updated)
}
