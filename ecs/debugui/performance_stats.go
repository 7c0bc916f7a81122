package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/healthregen/ecs"
)

// PerformanceStatsSystem records frame times and renders a window with
// storage shape, per-system timings and a frame time graph.
type PerformanceStatsSystem struct {
	Clock ecs.Singleton[ecs.Time]

	scheduler    *ecs.Scheduler
	frameHistory []float32
	frameIndex   int
	samples      int
}

func NewPerformanceStatsSystem(scheduler *ecs.Scheduler, historyFrames int) *PerformanceStatsSystem {
	if historyFrames < 1 {
		historyFrames = 1
	}
	return &PerformanceStatsSystem{
		scheduler:    scheduler,
		frameHistory: make([]float32, historyFrames),
	}
}

func (ps *PerformanceStatsSystem) Execute(frame *ecs.UpdateFrame) {
	ps.Record(frame.DeltaTime)
	storage := frame.Storage
	frame.Commands.Defer(func() {
		ps.render(storage)
	})
}

// Record adds one frame time, in seconds, to the history ring.
func (ps *PerformanceStatsSystem) Record(deltaTime float64) {
	ps.frameHistory[ps.frameIndex] = float32(deltaTime * 1000.0)
	ps.frameIndex = (ps.frameIndex + 1) % len(ps.frameHistory)
	if ps.samples < len(ps.frameHistory) {
		ps.samples++
	}
}

// AverageFrameTime returns the mean of the recorded frame times in milliseconds.
func (ps *PerformanceStatsSystem) AverageFrameTime() float32 {
	if ps.samples == 0 {
		return 0
	}

	var total float32
	for i := 0; i < ps.samples; i++ {
		total += ps.frameHistory[i]
	}
	return total / float32(ps.samples)
}

func (ps *PerformanceStatsSystem) render(storage *ecs.Storage) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := storage.CollectStats()

	if clock := ps.Clock.Get(); clock != nil {
		imgui.Text(fmt.Sprintf("Tick: %d  Elapsed: %.2f s", clock.Tick, clock.Elapsed))
	}
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	avgFrameTime := ps.AverageFrameTime()
	fps := float32(0)
	if avgFrameTime > 0 {
		fps = 1000.0 / avgFrameTime
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, fps))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg

	if ps.scheduler != nil && imgui.TreeNodeStr("Systems") {
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range ps.scheduler.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetype Details") {
		if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(strings.Join(arch.ComponentTypes, ", "))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}
