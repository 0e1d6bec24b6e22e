package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mistaa/flowstudio/pkg/flow"
)

// WeightMode distinguishes the two weight prompts. Creating an edge demands
// a positive weight; editing an existing edge additionally accepts zero as a
// deletion request.
type WeightMode int

const (
	// WeightCreate is the prompt shown after a connection proposal.
	WeightCreate WeightMode = iota
	// WeightEdit is the prompt shown when re-weighting a committed edge.
	WeightEdit
)

// ParseCreationWeight parses the user's answer to the new-edge weight prompt.
// Only strictly positive integers are accepted; anything else returns an
// error wrapping [flow.ErrInvalidWeight] so the host can re-prompt with the
// message while keeping the proposal alive. Cancelling the prompt is the
// host's concern: it simply never calls [Engine.CompleteConnection].
func ParseCreationWeight(input string) (int, error) {
	w, err := parseWeight(input)
	if err != nil {
		return 0, err
	}
	if w <= 0 {
		return 0, fmt.Errorf("%w: weight must be a positive number", flow.ErrInvalidWeight)
	}
	return w, nil
}

// ParseEditWeight parses the user's answer to the edit-weight prompt. Zero is
// accepted and means the edge should be removed, mirroring
// [flow.Graph.UpdateEdgeWeight]. Negative and non-numeric input is rejected
// for another attempt.
func ParseEditWeight(input string) (int, error) {
	w, err := parseWeight(input)
	if err != nil {
		return 0, err
	}
	if w < 0 {
		return 0, fmt.Errorf("%w: weight cannot be negative", flow.ErrInvalidWeight)
	}
	return w, nil
}

func parseWeight(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: enter a number", flow.ErrInvalidWeight)
	}
	w, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", flow.ErrInvalidWeight, s)
	}
	return w, nil
}
