package actuators

import (
	"fmt"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"golang.org/x/sync/errgroup"
)

// GroupActuator forwards everything to its member actuators, which are looked up in ActuatorMap
type GroupActuator struct {
	Config    configuration.ActuatorConfig `json:"config"`
	lastValue floatValue
}

func (actuator *GroupActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *GroupActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *GroupActuator) OutputValue(value float64) error {
	if err := checkRange(actuator.Config, value); err != nil {
		return err
	}
	err := actuator.forEachMember(func(member Actuator) error {
		return member.OutputValue(value)
	})
	if err != nil {
		return err
	}
	actuator.lastValue.Store(value)
	return nil
}

func (actuator *GroupActuator) SetPolaritySignal(polarity Polarity) error {
	return actuator.forEachMember(func(member Actuator) error {
		return member.SetPolaritySignal(polarity)
	})
}

func (actuator *GroupActuator) GetLastValue() float64 {
	return actuator.lastValue.Load()
}

func (actuator *GroupActuator) forEachMember(f func(member Actuator) error) error {
	var members []Actuator
	for _, id := range actuator.Config.Group.Actuators {
		member, ok := ActuatorMap.Get(id)
		if !ok {
			return fmt.Errorf("%w: group %s: member actuator '%s' not found", ErrConfiguration, actuator.Config.ID, id)
		}
		members = append(members, member)
	}

	var g errgroup.Group
	for _, member := range members {
		member := member
		g.Go(func() error {
			return f(member)
		})
	}
	return g.Wait()
}
