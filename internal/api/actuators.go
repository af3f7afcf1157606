package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/util"
)

type ActuatorStatus struct {
	Id        string                       `json:"id"`
	LastValue float64                      `json:"lastValue"`
	Config    configuration.ActuatorConfig `json:"config"`
}

func NewActuatorStatus(actuator actuators.Actuator) ActuatorStatus {
	return ActuatorStatus{
		Id:        actuator.GetId(),
		LastValue: actuator.GetLastValue(),
		Config:    reprint.This(actuator.GetConfig()).(configuration.ActuatorConfig),
	}
}

func registerActuatorEndpoints(rest *echo.Echo) {
	group := rest.Group("/actuator")

	group.GET("/", getActuators)
	group.GET("/:"+urlParamId+"/", getActuator)
}

// returns a list of all currently configured actuators
func getActuators(c echo.Context) error {
	items := actuators.ActuatorMap.Items()
	data := []ActuatorStatus{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, NewActuatorStatus(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getActuator(c echo.Context) error {
	id := c.Param(urlParamId)
	actuator, exists := actuators.ActuatorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, NewActuatorStatus(actuator), indentationChar)
}
