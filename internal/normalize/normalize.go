// Package normalize recovers parseable JSON from raw LLM completions.
//
// Model output that should be a JSON object frequently arrives wrapped in
// markdown fences or explanatory prose, or with quoting and comma defects.
// Normalize applies a staged pipeline, cheapest first: a direct parse, a
// fixed repair pass, and finally balanced-brace extraction of candidate
// objects. Later stages run only when the prior one fails, so already-valid
// input is never touched by repair heuristics.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stage identifies which pipeline stage produced a Result.
type Stage int

const (
	StageDirect Stage = iota
	StageRepair
	StageExtract
)

func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageRepair:
		return "repair"
	case StageExtract:
		return "extract"
	default:
		return "unknown"
	}
}

// Result holds the recovered JSON and the stage that produced it.
type Result struct {
	Data  json.RawMessage
	Stage Stage
}

// FormatError is returned when every recovery stage has been exhausted.
// It carries the original raw text and the last parse error for diagnostics.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecoverable response format: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Normalize turns a raw completion into parseable JSON. It is pure and
// deterministic: the same input always yields the same Result.
func Normalize(raw string) (Result, error) {
	trimmed := strings.TrimSpace(raw)

	// Stage 1: direct parse. The common case must short-circuit all repair.
	if err := checkJSON(trimmed); err == nil {
		return Result{Data: json.RawMessage(trimmed), Stage: StageDirect}, nil
	}

	// Stage 2: fixed repair pass, then re-parse.
	repaired := Repair(trimmed)
	lastErr := checkJSON(repaired)
	if lastErr == nil {
		return Result{Data: json.RawMessage(repaired), Stage: StageRepair}, nil
	}

	// Stage 3: balanced-brace extraction over the repaired text.
	for _, candidate := range extractCandidates(repaired) {
		err := checkJSON(candidate)
		if err == nil {
			return Result{Data: json.RawMessage(candidate), Stage: StageExtract}, nil
		}
		lastErr = err
	}

	return Result{}, &FormatError{Raw: raw, Err: lastErr}
}

// Unmarshal normalizes raw and decodes the recovered JSON into v.
func Unmarshal(raw string, v any) error {
	res, err := Normalize(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(res.Data, v)
}

func checkJSON(s string) error {
	if s == "" {
		return fmt.Errorf("empty input")
	}
	var v any
	return json.Unmarshal([]byte(s), &v)
}
