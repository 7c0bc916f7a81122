// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
//
// Rendering happens in deferred commands, so a host must run the scheduler
// between the ImGui backend's BeginFrame and EndFrame calls.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/healthregen/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Hosts read it to leave keys alone while ImGui is consuming them.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		if item.ImguiItem.Render != nil {
			frame.Commands.Defer(item.ImguiItem.Render)
		}
	}
}

// RegisterComponents registers the component types used by this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// Install adds the ImGui systems and the performance panel to scheduler.
// They should be registered after the simulation systems so the panels
// show the state of the current tick.
func Install(scheduler *ecs.Scheduler) {
	ecs.NewSingleton[ImguiInputState](scheduler.Storage())

	scheduler.Register(&ImguiSystem{})
	scheduler.Register(NewPerformanceStatsSystem(scheduler, 120))
}
