package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Direction selects the encode or decode half of a codec.
type Direction string

const (
	DirectionEncode Direction = "encode"
	DirectionDecode Direction = "decode"
)

// ParseDirection accepts "encode" or "decode" in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionEncode, DirectionDecode:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction %q: must be %q or %q", s, DirectionEncode, DirectionDecode)
}

func (d Direction) opposite() Direction {
	if d == DirectionEncode {
		return DirectionDecode
	}
	return DirectionEncode
}

// Step is one stage of a pipeline.
type Step struct {
	Format    Format    `json:"format"`
	Direction Direction `json:"direction"`
}

// Pipeline chains steps, feeding each output into the next step.
type Pipeline struct {
	Steps []Step `json:"steps"`
}

// ParseSteps reads a comma-separated list of format:direction pairs such as
// "base64:encode,hex:encode". A missing direction means encode.
func ParseSteps(list string) ([]Step, error) {
	var steps []Step
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, found := strings.Cut(part, ":")
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		d := DirectionEncode
		if found {
			if d, err = ParseDirection(dir); err != nil {
				return nil, err
			}
		}
		steps = append(steps, Step{Format: f, Direction: d})
	}
	if len(steps) == 0 {
		return nil, errors.New("pipeline has no steps")
	}
	return steps, nil
}

// Run applies the steps in order using table.
func (p *Pipeline) Run(table *Table, input string) (string, error) {
	if table == nil {
		table = Default()
	}
	result := input
	for i, step := range p.Steps {
		var err error
		switch step.Direction {
		case DirectionEncode:
			result, err = table.Encode(step.Format, result)
		case DirectionDecode:
			result, err = table.Decode(step.Format, result)
		default:
			return "", fmt.Errorf("step %d (%s): invalid direction %q", i, step.Format, step.Direction)
		}
		if err != nil {
			return "", fmt.Errorf("step %d (%s %s): %w", i, step.Format, step.Direction, err)
		}
	}
	return result, nil
}

// Reverse returns the pipeline that undoes p. It fails when a step's format
// has no exact inverse.
func (p *Pipeline) Reverse() (*Pipeline, error) {
	reversed := &Pipeline{Steps: make([]Step, len(p.Steps))}
	for i, step := range p.Steps {
		if !Describe(step.Format).Invertible {
			return nil, fmt.Errorf("step %d: %s is not reversible", i, step.Format)
		}
		reversed.Steps[len(p.Steps)-1-i] = Step{
			Format:    step.Format,
			Direction: step.Direction.opposite(),
		}
	}
	return reversed, nil
}
