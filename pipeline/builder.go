package pipeline

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sarchlab/paxflow/queueing"
	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"
)

// A StageSpec describes one stage by name and mean service rate in
// passengers per minute. If Sampler is set, service durations are drawn from
// it instead of the shared stream and Rate may be left zero.
type StageSpec struct {
	Name    string               `mapstructure:"name" json:"name" yaml:"name"`
	Rate    float64              `mapstructure:"rate" json:"rate" yaml:"rate"`
	Sampler distribution.Sampler `mapstructure:"-" json:"-" yaml:"-"`
}

// Names of the stages of the airport topology.
const (
	StageCheckIn  = "check-in"
	StageSecurity = "security"
	StageBoarding = "boarding"
)

// AirportStages returns the check-in, security, boarding chain.
func AirportStages(checkIn, security, boarding float64) []StageSpec {
	return []StageSpec{
		{Name: StageCheckIn, Rate: checkIn},
		{Name: StageSecurity, Rate: security},
		{Name: StageBoarding, Rate: boarding},
	}
}

// Builder can build pipelines.
type Builder struct {
	stages         []StageSpec
	stream         *rand.Rand
	parallelChunks int
	hooks          []sim.Hook
}

// MakeBuilder creates a builder with no stages.
func MakeBuilder() Builder {
	return Builder{}
}

// WithStage appends a stage with an exponential service time.
func (b Builder) WithStage(name string, rate float64) Builder {
	return b.WithStages(StageSpec{Name: name, Rate: rate})
}

// WithStageSampler appends a stage whose service durations come from the
// sampler.
func (b Builder) WithStageSampler(
	name string,
	sampler distribution.Sampler,
) Builder {
	return b.WithStages(StageSpec{Name: name, Sampler: sampler})
}

// WithStages appends stages in order.
func (b Builder) WithStages(specs ...StageSpec) Builder {
	stages := make([]StageSpec, 0, len(b.stages)+len(specs))
	stages = append(stages, b.stages...)
	b.stages = append(stages, specs...)

	return b
}

// WithStream sets the random stream shared by all stages. Stages draw from it
// in stage order.
func (b Builder) WithStream(stream *rand.Rand) Builder {
	b.stream = stream
	return b
}

// WithParallelChunks lets every stage serve its batch with a parallel scan
// over n chunks.
func (b Builder) WithParallelChunks(n int) Builder {
	b.parallelChunks = n
	return b
}

// WithHook attaches a hook to every stage.
func (b Builder) WithHook(hook sim.Hook) Builder {
	hooks := make([]sim.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

// Build validates every stage and creates the pipeline. No random draw is
// made while building.
func (b Builder) Build() (*Pipeline, error) {
	if err := b.stagesMustBeValid(); err != nil {
		return nil, err
	}

	p := &Pipeline{}
	for _, spec := range b.stages {
		sb := queueing.MakeBuilder().
			WithRate(spec.Rate).
			WithStream(b.stream).
			WithParallelChunks(b.parallelChunks)
		if spec.Sampler != nil {
			sb = sb.WithSampler(spec.Sampler)
		}

		stage, err := sb.Build(spec.Name)
		if err != nil {
			return nil, err
		}

		for _, h := range b.hooks {
			stage.AcceptHook(h)
		}

		p.stages = append(p.stages, stage)
	}

	return p, nil
}

func (b Builder) stagesMustBeValid() error {
	if len(b.stages) == 0 {
		return &sim.ParameterError{
			Name:   "stages",
			Value:  0,
			Reason: "at least one stage is required",
		}
	}

	needStream := false
	seen := make(map[string]bool)
	for _, spec := range b.stages {
		if spec.Name == "" || strings.ContainsAny(spec.Name, " \t\n") {
			return &sim.ParameterError{
				Name:   "stages",
				Value:  spec.Name,
				Reason: "stage names must be non-empty without whitespace",
			}
		}

		if seen[spec.Name] {
			return &sim.ParameterError{
				Name:   "stages",
				Value:  spec.Name,
				Reason: fmt.Sprintf("duplicated stage %q", spec.Name),
			}
		}

		seen[spec.Name] = true

		if spec.Sampler != nil && spec.Rate == 0 {
			continue
		}

		if err := sim.CheckPositiveRate(spec.Name, spec.Rate); err != nil {
			return err
		}

		needStream = needStream || spec.Sampler == nil
	}

	if needStream && b.stream == nil {
		panic("pipeline: a stream is required")
	}

	return nil
}
