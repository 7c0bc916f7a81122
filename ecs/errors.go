package ecs

import "github.com/rotisserie/eris"

var (
	ErrNoComponents          = eris.New("cannot spawn entity without components")
	ErrDuplicateComponent    = eris.New("component type appears more than once")
	ErrUnregisteredComponent = eris.New("component type not registered")
	ErrInvalidComponentKind  = eris.New("components cannot be pointers, maps, channels, or functions")
	ErrAlreadyStarted        = eris.New("scheduler startup already ran")
)
