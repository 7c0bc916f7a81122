package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/healthregen/ecs"
	"github.com/plus3/healthregen/ecs/debugui"
	"github.com/plus3/healthregen/health"
)

type inspectorRow struct {
	ecs.EntityId
	*health.Health
	Regen *health.Regeneration `ecs:"optional"`
}

// spawnHealthInspector adds an ImGui window listing every health-bearing entity.
func spawnHealthInspector(storage *ecs.Storage) {
	rows := ecs.NewQuery[inspectorRow](storage)

	if _, err := storage.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(300, 200), imgui.CondOnce)

			if !imgui.BeginV("Healths", nil, 0) {
				imgui.End()
				return
			}

			const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
			if imgui.BeginTableV("HealthTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
				imgui.TableSetupColumn("Entity")
				imgui.TableSetupColumn("Health")
				imgui.TableSetupColumn("Regen/s")
				imgui.TableHeadersRow()

				for row := range rows.Values() {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d:%d", row.ArchetypeId(), row.Index()))
					imgui.TableNextColumn()
					imgui.Text(health.FormatValue(row.Current))
					imgui.TableNextColumn()
					if row.Regen != nil {
						imgui.Text(health.FormatValue(row.Regen.Rate))
					} else {
						imgui.Text("-")
					}
				}

				imgui.EndTable()
			}

			imgui.End()
		},
	}); err != nil {
		panic(err)
	}
}
