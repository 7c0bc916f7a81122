package ecs

import (
	"reflect"
	"runtime"
	"strings"
)

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query and
// Singleton fields, which the Scheduler binds at registration, as well as custom
// state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

// Execute calls f(frame).
func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// systemName returns a short, human readable name for a system: the struct
// type name, or the function name for a SystemFunc.
func systemName(system System) string {
	if fn, ok := system.(SystemFunc); ok {
		full := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
		if idx := strings.LastIndex(full, "/"); idx >= 0 {
			full = full[idx+1:]
		}
		return full
	}

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}
