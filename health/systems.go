package health

import (
	"bytes"
	"io"
	"os"

	"github.com/plus3/healthregen/ecs"
)

// RegenerationSystem adds Rate * DeltaTime to the Health of every entity that
// has both components. Values are not clamped.
type RegenerationSystem struct {
	Entities ecs.Query[struct {
		*Health
		*Regeneration
	}]
}

func (s *RegenerationSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for item := range s.Entities.Values() {
		item.Health.Current += item.Regeneration.Rate * dt
	}
}

// ReportSystem writes a "Healths:" header followed by one "- <value>" line per
// entity with Health, in spawn order. A nil Out writes to stdout.
type ReportSystem struct {
	Entities ecs.Query[struct{ *Health }]
	Out      io.Writer

	buf bytes.Buffer
}

func (s *ReportSystem) Execute(frame *ecs.UpdateFrame) {
	s.buf.Reset()
	s.buf.WriteString("Healths:\n")
	for item := range s.Entities.Values() {
		s.buf.WriteString("- ")
		s.buf.WriteString(FormatValue(item.Health.Current))
		s.buf.WriteByte('\n')
	}

	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	// Write failures are logged; the tick carries on.
	if _, err := out.Write(s.buf.Bytes()); err != nil {
		frame.Logger.Warn().Err(err).Msg("failed to write health report")
	}
}
