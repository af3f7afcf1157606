package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// RampModeHookFunc returns a mapstructure decode hook that normalizes ramp modes.
// Besides the names "default" and "accelerated" the numeric values 0 and 1 are accepted.
func RampModeHookFunc() mapstructure.DecodeHookFuncType {
	rampModeType := reflect.TypeOf(RampMode(""))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != rampModeType {
			return data, nil
		}

		var text string
		switch v := data.(type) {
		case string:
			text = v
		case int:
			text = strconv.Itoa(v)
		case int64:
			text = strconv.FormatInt(v, 10)
		case float64:
			text = strconv.Itoa(int(v))
		default:
			return data, nil
		}

		return ParseRampMode(text)
	}
}

// ParseRampMode parses the given text into a RampMode
func ParseRampMode(text string) (RampMode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", string(RampModeDefault), "0":
		return RampModeDefault, nil
	case string(RampModeAccelerated), "1":
		return RampModeAccelerated, nil
	default:
		return "", fmt.Errorf("unknown ramp mode '%s', use one of: %s | %s", text, RampModeDefault, RampModeAccelerated)
	}
}
