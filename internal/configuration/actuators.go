package configuration

import "time"

type ActuatorConfig struct {
	ID string `json:"id"`
	// Min and Max limit the values accepted by the actuator
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	File    *FileActuatorConfig    `json:"file,omitempty"`
	Cmd     *CmdActuatorConfig     `json:"cmd,omitempty"`
	LabJack *LabJackActuatorConfig `json:"labjack,omitempty"`
	Serial  *SerialActuatorConfig  `json:"serial,omitempty"`
	Group   *GroupActuatorConfig   `json:"group,omitempty"`
	Virtual *VirtualActuatorConfig `json:"virtual,omitempty"`
}

type FileActuatorConfig struct {
	Path         string `json:"path"`
	PolarityPath string `json:"polarityPath,omitempty"`
}

type ExecConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

type CmdActuatorConfig struct {
	// SetValue is executed for every emitted value, "%value%" is substituted in args
	SetValue *ExecConfig `json:"setValue"`
	// SetPolarity is executed on polarity changes, "%polarity%" is substituted in args
	SetPolarity *ExecConfig `json:"setPolarity,omitempty"`
}

const (
	LabJackEncodingTimer    = "timer"
	LabJackEncodingRegister = "register"
)

type LabJackActuatorConfig struct {
	// Address of a Modbus TCP endpoint (host:port)
	Address string `json:"address,omitempty"`
	// Device of a Modbus RTU serial line, used when Address is empty
	Device   string `json:"device,omitempty"`
	BaudRate int    `json:"baudRate,omitempty"`
	SlaveId  byte   `json:"slaveId,omitempty"`

	// ValueRegister is the first register the output value is written to
	ValueRegister uint16 `json:"valueRegister"`
	// Encoding is one of: timer | register
	Encoding string `json:"encoding,omitempty"`
	// Scale is applied to the value when using the register encoding
	Scale float64 `json:"scale,omitempty"`
	// PolarityRegister is a digital output register, written 1 for positive and 0 for negative polarity
	PolarityRegister *uint16 `json:"polarityRegister,omitempty"`

	Timeout time.Duration `json:"timeout,omitempty"`
}

type SerialActuatorConfig struct {
	Device  string        `json:"device"`
	Baud    int           `json:"baud,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`
}

type GroupActuatorConfig struct {
	Actuators []string `json:"actuators"`
}

type VirtualActuatorConfig struct {
	// FailAfter makes the actuator fail with a connection error after the given number of emitted values
	FailAfter int `json:"failAfter,omitempty"`
}
