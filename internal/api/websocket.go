package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/ramp2go/ramp2go/internal/util"
)

const clientBufferSize = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Command is sent by websocket clients to control a ramp
type Command struct {
	// Command is one of: rampTo | increase | decrease | stop
	Command string  `json:"command"`
	Id      string  `json:"id"`
	Value   float64 `json:"value"`
}

// Hub pushes the status of a ramp to all websocket clients whenever it changes
type Hub struct {
	mu      sync.Mutex
	clients map[chan RampStatus]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: map[chan RampStatus]struct{}{},
	}
}

func (h *Hub) StepApplied(controller *ramp.Controller, run *ramp.Run, value float64) {
	h.broadcast(NewRampStatus(controller))
}

func (h *Hub) PolaritySignalled(controller *ramp.Controller, polarity actuators.Polarity) {
	h.broadcast(NewRampStatus(controller))
}

func (h *Hub) RunFinished(controller *ramp.Controller, run *ramp.Run) {
	h.broadcast(NewRampStatus(controller))
}

func (h *Hub) subscribe() chan RampStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan RampStatus, clientBufferSize)
	h.clients[ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(ch chan RampStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

func (h *Hub) broadcast(status RampStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- status:
		default:
			// slow client, drop the update
		}
	}
}

func registerWebsocketEndpoint(rest *echo.Echo, hub *Hub) {
	rest.GET("/ws/", func(c echo.Context) error {
		return hub.serve(c)
	})
}

func (h *Hub) serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	updates := h.subscribe()
	defer h.unsubscribe(updates)

	// replies are written by the loop below, gorilla connections allow a single writer only
	replies := make(chan Result, clientBufferSize)

	// read and process incoming commands
	go func() {
		defer cancel()
		for {
			var command Command
			if err := conn.ReadJSON(&command); err != nil {
				return
			}
			if err := executeCommand(command); err != nil {
				ui.Warning("Websocket command failed: %v", err)
				select {
				case replies <- Result{Name: "Bad request", Message: err.Error()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	items := ramp.RampMap.Items()
	for _, id := range util.SortedKeys(items) {
		if err := conn.WriteJSON(NewRampStatus(items[id])); err != nil {
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case status := <-updates:
			if err := conn.WriteJSON(status); err != nil {
				return nil
			}
		case reply := <-replies:
			if err := conn.WriteJSON(reply); err != nil {
				return nil
			}
		}
	}
}

func executeCommand(command Command) error {
	controller, exists := ramp.RampMap.Get(command.Id)
	if !exists {
		return fmt.Errorf("no ramp with id '%s' found", command.Id)
	}
	switch command.Command {
	case "rampTo":
		controller.RampTo(command.Value)
	case "increase":
		controller.Increase(command.Value)
	case "decrease":
		controller.Decrease(command.Value)
	case "stop":
		controller.Stop()
	default:
		return fmt.Errorf("unknown command '%s', use one of: rampTo | increase | decrease | stop", command.Command)
	}
	return nil
}
