package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/util"
)

type RampStatus struct {
	Id       string  `json:"id"`
	Actuator string  `json:"actuator"`
	Value    float64 `json:"value"`
	Target   float64 `json:"target"`
	Polarity string  `json:"polarity"`
	State    string  `json:"state"`
	Steps    int64   `json:"steps"`
	Error    string  `json:"error,omitempty"`

	StepSize      float64 `json:"stepSize"`
	StepDelay     string  `json:"stepDelay"`
	Mode          string  `json:"mode"`
	Tolerance     float64 `json:"tolerance"`
	ClampToTarget bool    `json:"clampToTarget"`
}

func NewRampStatus(controller *ramp.Controller) RampStatus {
	params := controller.Params()
	status := RampStatus{
		Id:            controller.GetId(),
		Actuator:      controller.GetActuator().GetId(),
		Value:         controller.CurrentValue(),
		Target:        controller.CurrentValue(),
		Polarity:      controller.Polarity().String(),
		State:         "idle",
		StepSize:      params.StepSize,
		StepDelay:     params.StepDelay.String(),
		Mode:          params.Mode.String(),
		Tolerance:     params.Tolerance,
		ClampToTarget: params.ClampToTarget,
	}
	if run := controller.CurrentRun(); run != nil {
		status.Target = run.Target()
		status.State = run.State().String()
		status.Steps = run.Steps()
		if err := run.Err(); err != nil {
			status.Error = err.Error()
		}
	}
	return status
}

type ValueRequest struct {
	Value *float64 `json:"value"`
}

type ParamsRequest struct {
	StepSize      *float64 `json:"stepSize"`
	StepDelay     string   `json:"stepDelay"`
	Mode          string   `json:"mode"`
	Tolerance     *float64 `json:"tolerance"`
	ClampToTarget *bool    `json:"clampToTarget"`
}

func registerRampEndpoints(rest *echo.Echo) {
	group := rest.Group("/ramp")

	group.GET("/", getRamps)
	group.GET("/:"+urlParamId+"/", getRamp)
	group.POST("/:"+urlParamId+"/target/", rampTo)
	group.POST("/:"+urlParamId+"/increase/", increase)
	group.POST("/:"+urlParamId+"/decrease/", decrease)
	group.POST("/:"+urlParamId+"/params/", setParams)
	group.DELETE("/:"+urlParamId+"/run/", stopRun)
}

// returns a list of all currently configured ramps
func getRamps(c echo.Context) error {
	items := ramp.RampMap.Items()
	data := []RampStatus{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, NewRampStatus(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getRamp(c echo.Context) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.RampMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, NewRampStatus(controller), indentationChar)
}

func rampTo(c echo.Context) error {
	return withValue(c, func(controller *ramp.Controller, value float64) {
		controller.RampTo(value)
	})
}

func increase(c echo.Context) error {
	return withValue(c, func(controller *ramp.Controller, value float64) {
		controller.Increase(value)
	})
}

func decrease(c echo.Context) error {
	return withValue(c, func(controller *ramp.Controller, value float64) {
		controller.Decrease(value)
	})
}

func stopRun(c echo.Context) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.RampMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	controller.Stop()
	return c.JSONPretty(http.StatusOK, NewRampStatus(controller), indentationChar)
}

func setParams(c echo.Context) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.RampMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request ParamsRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err.Error())
	}

	params, err := mergeParams(controller.Params(), request)
	if err == nil {
		err = controller.SetParams(params)
	}
	if errors.Is(err, actuators.ErrConfiguration) {
		return returnBadRequest(c, err.Error())
	} else if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, NewRampStatus(controller), indentationChar)
}

func mergeParams(params ramp.Params, request ParamsRequest) (ramp.Params, error) {
	if request.StepSize != nil {
		params.StepSize = *request.StepSize
	}
	if len(request.StepDelay) > 0 {
		stepDelay, err := time.ParseDuration(request.StepDelay)
		if err != nil {
			return params, fmt.Errorf("%w: invalid stepDelay: %v", actuators.ErrConfiguration, err)
		}
		params.StepDelay = stepDelay
	}
	if len(request.Mode) > 0 {
		rampMode, err := configuration.ParseRampMode(request.Mode)
		if err != nil {
			return params, fmt.Errorf("%w: %v", actuators.ErrConfiguration, err)
		}
		mode, err := ramp.ModeOf(rampMode)
		if err != nil {
			return params, err
		}
		params.Mode = mode
	}
	if request.Tolerance != nil {
		params.Tolerance = *request.Tolerance
	}
	if request.ClampToTarget != nil {
		params.ClampToTarget = *request.ClampToTarget
	}
	return params, nil
}

func withValue(c echo.Context, f func(controller *ramp.Controller, value float64)) error {
	id := c.Param(urlParamId)
	controller, exists := ramp.RampMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request ValueRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err.Error())
	}
	if request.Value == nil {
		return returnBadRequest(c, "missing field 'value'")
	}

	f(controller, *request.Value)
	return c.JSONPretty(http.StatusAccepted, NewRampStatus(controller), indentationChar)
}
