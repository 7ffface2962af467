// Package backendtest runs an in-memory restaurant REST backend on an
// httptest server. It follows the backend contract closely enough for
// repository, service and controller tests: envelopes, active orders, order
// pricing at write time, table occupancy and revenue.
package backendtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

// Request is a request received by the server.
type Request struct {
	Method string
	Route  string
	Path   string
	Body   []byte
}

type failure struct {
	message string
	status  int
	times   int
}

type Server struct {
	*httptest.Server

	Now func() time.Time

	mu       sync.Mutex
	tables   map[int64]*response.Table
	menu     map[int64]response.MenuItem
	orders   map[int64]*response.Order
	payments []response.Payment
	requests []Request
	failures map[string]*failure
	nextID   int64
	basePath string
}

// New starts a server. Close it when done; the BaseURL already carries the
// /api/v1 prefix.
func New() *Server {
	s := &Server{
		Now:      func() time.Time { return time.Now().UTC() },
		tables:   map[int64]*response.Table{},
		menu:     map[int64]response.MenuItem{},
		orders:   map[int64]*response.Order{},
		failures: map[string]*failure{},
		nextID:   100,
		basePath: "/api/v1",
	}

	router := mux.NewRouter()
	api := router.PathPrefix(s.basePath).Subrouter()
	api.Use(s.record)
	api.HandleFunc("/tables", s.listTables).Methods(http.MethodGet).Name("GET /tables")
	api.HandleFunc("/tables/available", s.listAvailableTables).Methods(http.MethodGet).Name("GET /tables/available")
	api.HandleFunc("/tables/{id}/status", s.updateTableStatus).Methods(http.MethodPatch).Name("PATCH /tables/{id}/status")
	api.HandleFunc("/menu-items", s.listMenuItems).Methods(http.MethodGet).Name("GET /menu-items")
	api.HandleFunc("/menu-items/grouped/by-category", s.menuByCategory).Methods(http.MethodGet).Name("GET /menu-items/grouped/by-category")
	api.HandleFunc("/orders", s.listOrders).Methods(http.MethodGet).Name("GET /orders")
	api.HandleFunc("/orders", s.createOrder).Methods(http.MethodPost).Name("POST /orders")
	api.HandleFunc("/orders/table/{tableId}/active", s.activeOrder).Methods(http.MethodGet).Name("GET /orders/table/{tableId}/active")
	api.HandleFunc("/orders/{id}", s.getOrder).Methods(http.MethodGet).Name("GET /orders/{id}")
	api.HandleFunc("/orders/{id}/items", s.updateOrderItems).Methods(http.MethodPut).Name("PUT /orders/{id}/items")
	api.HandleFunc("/orders/{id}/status", s.updateOrderStatus).Methods(http.MethodPatch).Name("PATCH /orders/{id}/status")
	api.HandleFunc("/payments", s.listPayments).Methods(http.MethodGet).Name("GET /payments")
	api.HandleFunc("/payments", s.createPayment).Methods(http.MethodPost).Name("POST /payments")
	api.HandleFunc("/payments/revenue", s.revenue).Methods(http.MethodGet).Name("GET /payments/revenue")

	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) BaseURL() string {
	return s.URL + s.basePath
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddTable seeds a table and returns its id.
func (s *Server) AddTable(name string, status response.TableStatus) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.tables[id] = &response.Table{ID: id, Name: name, Status: status, CreatedAt: s.Now()}
	return id
}

// AddMenuItem seeds a menu item with a fixed id.
func (s *Server) AddMenuItem(item response.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.Now()
	}
	s.menu[item.ID] = item
}

// SetMenuPrice changes the catalog price, leaving persisted order prices alone.
func (s *Server) SetMenuPrice(id int64, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.menu[id]
	item.Price = price
	s.menu[id] = item
}

// AddOrder seeds an order with explicit order-time prices and returns its id.
func (s *Server) AddOrder(tableID int64, status response.OrderStatus, items ...response.OrderItem) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	order := &response.Order{ID: id, TableID: tableID, Status: status, CheckIn: s.Now()}
	for _, item := range items {
		item.ID = s.id()
		item.OrderID = id
		order.Items = append(order.Items, item)
	}
	s.recalculate(order)
	if status != response.OrderStatusPending {
		checkOut := s.Now()
		order.CheckOut = &checkOut
	}
	s.orders[id] = order
	if status == response.OrderStatusPending {
		if table, ok := s.tables[tableID]; ok {
			table.Status = response.TableStatusOccupied
		}
	}
	return id
}

// AddPayment seeds a payment.
func (s *Server) AddPayment(payment response.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment.ID = s.id()
	s.payments = append(s.payments, payment)
}

// Fail makes the next `times` calls of route answer with status and message.
// Routes are named "METHOD /template", e.g. "POST /orders".
func (s *Server) Fail(route string, status int, message string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = &failure{status: status, message: message, times: times}
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	requests := make([]Request, len(s.requests))
	copy(requests, s.requests)
	return requests
}

// RequestsTo returns the recorded requests of one route.
func (s *Server) RequestsTo(route string) []Request {
	requests := []Request{}
	for _, r := range s.Requests() {
		if r.Route == route {
			requests = append(requests, r)
		}
	}
	return requests
}

func (s *Server) Order(id int64) (response.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return response.Order{}, false
	}
	return s.withMenuItems(*order), true
}

func (s *Server) Table(id int64) (response.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[id]
	if !ok {
		return response.Table{}, false
	}
	return *table, true
}

func (s *Server) Payments() []response.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments := make([]response.Payment, len(s.payments))
	copy(payments, s.payments)
	return payments
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		route := ""
		if current := mux.CurrentRoute(r); current != nil {
			route = current.GetName()
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Route: route, Path: r.URL.Path, Body: body})
		f, ok := s.failures[route]
		if ok && f.times > 0 {
			f.times--
			s.mu.Unlock()
			writeError(w, f.status, f.message)
			return
		}
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": message})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

func (s *Server) sortedTables(filter func(response.Table) bool) []response.Table {
	tables := []response.Table{}
	for _, table := range s.tables {
		if filter(*table) {
			tables = append(tables, *table)
		}
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	return tables
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, http.StatusOK, s.sortedTables(func(response.Table) bool { return true }))
}

func (s *Server) listAvailableTables(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, http.StatusOK, s.sortedTables(func(t response.Table) bool {
		return t.Status == response.TableStatusAvailable
	}))
}

func (s *Server) updateTableStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body := request.UpdateTableStatus{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Table not found")
		return
	}
	table.Status = body.Status
	writeData(w, http.StatusOK, table)
}

func (s *Server) sortedMenu() []response.MenuItem {
	items := make([]response.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *Server) listMenuItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	itemType := response.MenuItemType(r.URL.Query().Get("type"))
	items := []response.MenuItem{}
	for _, item := range s.sortedMenu() {
		if itemType == "" || item.Type == itemType {
			items = append(items, item)
		}
	}
	writeData(w, http.StatusOK, items)
}

func (s *Server) menuByCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grouped := response.MenuItemsByCategory{}
	for _, item := range s.sortedMenu() {
		category := "Khác"
		if item.Category != nil {
			category = *item.Category
		}
		grouped[category] = append(grouped[category], item)
	}
	writeData(w, http.StatusOK, grouped)
}

func (s *Server) recalculate(order *response.Order) {
	total := decimal.Zero
	for _, item := range order.Items {
		total = total.Add(item.LineTotal())
	}
	order.TotalAmount = total
}

func (s *Server) withMenuItems(order response.Order) response.Order {
	items := make([]response.OrderItem, len(order.Items))
	for i, item := range order.Items {
		if menuItem, ok := s.menu[item.MenuItemID]; ok {
			menuItem := menuItem
			item.MenuItem = &menuItem
		}
		items[i] = item
	}
	order.Items = items
	return order
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := response.OrderStatus(r.URL.Query().Get("status"))
	orders := []response.Order{}
	for _, order := range s.orders {
		if status == "" || order.Status == status {
			orders = append(orders, s.withMenuItems(*order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	writeData(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeData(w, http.StatusOK, s.withMenuItems(*order))
}

func (s *Server) pendingOrder(tableID int64) *response.Order {
	for _, order := range s.orders {
		if order.TableID == tableID && order.Status == response.OrderStatusPending {
			return order
		}
	}
	return nil
}

func (s *Server) activeOrder(w http.ResponseWriter, r *http.Request) {
	tableID, _ := pathID(r, "tableId")
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.pendingOrder(tableID)
	if order == nil {
		writeData(w, http.StatusOK, nil)
		return
	}
	withItems := s.withMenuItems(*order)
	writeData(w, http.StatusOK, response.ActiveOrder{Order: &withItems, Items: withItems.Items})
}

func (s *Server) priceItems(orderID int64, items []request.OrderItem, previous []response.OrderItem) ([]response.OrderItem, error) {
	priced := make([]response.OrderItem, 0, len(items))
	for _, item := range items {
		menuItem, ok := s.menu[item.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("Menu item %d not found", item.MenuItemID)
		}
		price := menuItem.Price
		for _, p := range previous {
			if p.MenuItemID == item.MenuItemID {
				price = p.PriceAtOrderTime
			}
		}
		orderItem := response.OrderItem{
			ID:               s.id(),
			OrderID:          orderID,
			MenuItemID:       item.MenuItemID,
			Quantity:         item.Quantity,
			PriceAtOrderTime: price,
		}
		if item.Note != "" {
			note := item.Note
			orderItem.Note = &note
		}
		priced = append(priced, orderItem)
	}
	return priced, nil
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	body := request.CreateOrder{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[body.TableID]
	if !ok {
		writeError(w, http.StatusNotFound, "Table not found")
		return
	}
	if s.pendingOrder(body.TableID) != nil {
		writeError(w, http.StatusConflict, "Table already has an active order")
		return
	}
	id := s.id()
	items, err := s.priceItems(id, body.Items, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order := &response.Order{
		ID:      id,
		TableID: body.TableID,
		Status:  response.OrderStatusPending,
		CheckIn: s.Now(),
		Items:   items,
	}
	s.recalculate(order)
	s.orders[id] = order
	table.Status = response.TableStatusOccupied
	writeData(w, http.StatusCreated, s.withMenuItems(*order))
}

func (s *Server) updateOrderItems(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body := request.UpdateOrderItems{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Status != response.OrderStatusPending {
		writeError(w, http.StatusBadRequest, "Order is not pending")
		return
	}
	items, err := s.priceItems(id, body.Items, order.Items)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order.Items = items
	s.recalculate(order)
	writeData(w, http.StatusOK, s.withMenuItems(*order))
}

func (s *Server) closeOrder(order *response.Order, status response.OrderStatus) {
	order.Status = status
	checkOut := s.Now()
	order.CheckOut = &checkOut
	if table, ok := s.tables[order.TableID]; ok {
		table.Status = response.TableStatusAvailable
	}
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body := request.UpdateOrderStatus{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if body.Status == response.OrderStatusPending {
		order.Status = body.Status
		order.CheckOut = nil
	} else {
		s.closeOrder(order, body.Status)
	}
	writeData(w, http.StatusOK, s.withMenuItems(*order))
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments := make([]response.Payment, len(s.payments))
	copy(payments, s.payments)
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt.After(payments[j].PaidAt) })
	writeData(w, http.StatusOK, payments)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	body := request.CreatePayment{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[body.OrderID]
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Status != response.OrderStatusPending {
		writeError(w, http.StatusBadRequest, "Order is not pending")
		return
	}
	s.closeOrder(order, response.OrderStatusCompleted)
	payment := response.Payment{
		ID:            s.id(),
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		PaidAt:        s.Now(),
		PaymentMethod: body.PaymentMethod,
	}
	s.payments = append(s.payments, payment)
	writeData(w, http.StatusCreated, payment)
}

func (s *Server) revenue(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	s.mu.Lock()
	defer s.mu.Unlock()
	report := response.RevenueReport{StartDate: start, EndDate: end, TotalRevenue: decimal.Zero}
	for _, payment := range s.payments {
		day := payment.PaidAt.UTC().Format("2006-01-02")
		if (start != "" && day < start) || (end != "" && day > end) {
			continue
		}
		report.TotalRevenue = report.TotalRevenue.Add(payment.Amount)
		report.TotalOrders++
	}
	writeData(w, http.StatusOK, report)
}
