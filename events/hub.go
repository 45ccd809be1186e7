package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/cafe-app/models"
)

// Event types pushed to connected staff clients.
const (
	EventOrderCreate = "order_create"
	EventOrderUpdate = "order_update"
	EventOrderStatus = "order_status"
	EventOrderDelete = "order_delete"
	EventStaffNotif  = "staff_notification"
	EventCatalogEdit = "catalog_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connected staff clients and fans broadcast messages out to
// all of them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the set with its role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient releases a connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreate announces a new order
func BroadcastOrderCreate(order models.Order) {
	broadcast(Message{Event: EventOrderCreate, Data: order})
}

// BroadcastOrderUpdate announces edits to an order's items or fields
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastOrderStatus announces a status transition
func BroadcastOrderStatus(order models.Order) {
	broadcast(Message{Event: EventOrderStatus, Data: order})
}

// BroadcastOrderDelete announces an order removal
func BroadcastOrderDelete(orderID uint) {
	broadcast(Message{Event: EventOrderDelete, Data: map[string]uint{"order_id": orderID}})
}

// BroadcastStaffNotification sends a free-form message to staff
func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

// BroadcastCatalogUpdate announces a dish catalog change
func BroadcastCatalogUpdate(dish models.Dish) {
	broadcast(Message{Event: EventCatalogEdit, Data: dish})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			continue
		}
	}
}
