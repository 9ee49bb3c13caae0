// Package reputation applies reputation events to factions. It is the only
// gameplay path that mutates relations.
package reputation

import (
	"log/slog"

	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/types"
)

// Report describes one applied reputation event.
type Report struct {
	Tick       int64
	Instigator types.FactionID
	Target     types.FactionID
	Event      string
	Delta      int
	Relation   int // target's relation toward instigator after the change
}

// Recorder receives every applied report.
type Recorder interface {
	RecordReputation(Report) error
}

type pending struct {
	instigator *faction.Faction
	target     *faction.Faction
	kind       faction.EventKind
}

// Service applies reputation events, either immediately or queued until
// the next Flush.
type Service struct {
	logger   *slog.Logger
	recorder Recorder
	queue    []pending
	tick     int64
}

// NewService creates a service. recorder may be nil.
func NewService(logger *slog.Logger, recorder Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:   logger.With("component", "reputation"),
		recorder: recorder,
	}
}

// SetTick sets the tick stamped on subsequent reports.
func (s *Service) SetTick(tick int64) {
	s.tick = tick
}

// Report applies kind to the pair at once. Only the target's view of the
// instigator changes, by the target's override for kind or its default.
func (s *Service) Report(instigator, target *faction.Faction, kind faction.EventKind) Report {
	if instigator == nil || target == nil {
		return Report{}
	}
	delta := target.ReputationImpact(kind)
	target.SetRelation(instigator, target.GetRelation(instigator)+delta)

	rep := Report{
		Tick:       s.tick,
		Instigator: instigator.ID(),
		Target:     target.ID(),
		Event:      kind.Name,
		Delta:      delta,
		Relation:   target.GetRelation(instigator),
	}
	s.logger.Debug("reputation event",
		"tick", rep.Tick,
		"instigator", rep.Instigator,
		"target", rep.Target,
		"event", rep.Event,
		"delta", rep.Delta,
		"relation", rep.Relation,
	)
	if s.recorder != nil {
		if err := s.recorder.RecordReputation(rep); err != nil {
			s.logger.Warn("failed to record reputation event", "error", err)
		}
	}
	return rep
}

// Enqueue defers a report until Flush.
func (s *Service) Enqueue(instigator, target *faction.Faction, kind faction.EventKind) {
	s.queue = append(s.queue, pending{instigator: instigator, target: target, kind: kind})
}

// Pending returns the number of queued reports.
func (s *Service) Pending() int {
	return len(s.queue)
}

// Flush applies queued reports in arrival order.
func (s *Service) Flush() []Report {
	if len(s.queue) == 0 {
		return nil
	}
	queue := s.queue
	s.queue = nil
	out := make([]Report, 0, len(queue))
	for _, p := range queue {
		if p.instigator == nil || p.target == nil {
			continue
		}
		out = append(out, s.Report(p.instigator, p.target, p.kind))
	}
	return out
}
