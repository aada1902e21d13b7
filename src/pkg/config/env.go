package config

import (
	"os"
	"strconv"
	"strings"
)

// Lookup resolves a named input from the environment.
// GitHub Action inputs (INPUT_<NAME>) win over HAVA_<NAME> variables.
type Lookup func(key string) (string, bool)

// EnvLookup reads inputs from the process environment
var EnvLookup Lookup = os.LookupEnv

// String returns the first non-empty value for name
func (l Lookup) String(name string) string {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	fallback := key
	if !strings.HasPrefix(key, "HAVA_") {
		fallback = "HAVA_" + key
	}
	for _, candidate := range []string{"INPUT_" + key, fallback} {
		if v, ok := l(candidate); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Bool returns the boolean value for name and whether a valid value was set
func (l Lookup) Bool(name string) (bool, bool) {
	v := l.String(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.WithField("input", name).WithField("value", v).Warn("Input is not a boolean, ignoring")
		return false, false
	}
	return b, true
}
