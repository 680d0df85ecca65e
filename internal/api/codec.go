package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/RowanDark/endcode/internal/codec"
	"github.com/RowanDark/endcode/internal/logging"
	"github.com/RowanDark/endcode/internal/observability/metrics"
)

// timestampLayout renders UTC times with millisecond precision, for example
// 2024-01-15T10:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// EncodeDecodeResponse is the success body of GET /api/encode-decode.
type EncodeDecodeResponse struct {
	Success   bool   `json:"success"`
	Operation string `json:"operation"`
	Type      string `json:"type"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the failure body of GET /api/encode-decode.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// ExecuteRequest runs one codec in one direction.
type ExecuteRequest struct {
	Format    string `json:"format"`
	Direction string `json:"direction"`
	Input     string `json:"input"`
}

// OutputResponse carries the result of an execute or pipeline request.
type OutputResponse struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// DetectRequest asks for the candidate formats of an unlabeled input.
type DetectRequest struct {
	Input string `json:"input"`
}

// DetectResponse lists candidates by descending confidence.
type DetectResponse struct {
	Candidates []codec.Candidate `json:"candidates"`
}

// FormatsResponse lists the supported formats.
type FormatsResponse struct {
	Formats []codec.Info `json:"formats"`
}

// PipelineStep names one stage of a pipeline request.
type PipelineStep struct {
	Format    string `json:"format"`
	Direction string `json:"direction"`
}

// PipelineRequest chains codecs over input. Reverse runs the inverse
// pipeline instead.
type PipelineRequest struct {
	Input   string         `json:"input"`
	Steps   []PipelineStep `json:"steps"`
	Reverse bool           `json:"reverse,omitempty"`
}

// handleEncodeDecode implements the query-string contract of the web tool.
// Every failure, including codec failures, is a 400.
func (s *Server) handleEncodeDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	text := q.Get("text")
	operation := q.Get("operation")
	typ := q.Get("type")

	if text == "" {
		s.reject(w, r, "Missing required parameter: text")
		return
	}
	dir := codec.Direction(operation)
	if dir != codec.DirectionEncode && dir != codec.DirectionDecode {
		s.reject(w, r, `Invalid operation. Must be "encode" or "decode"`)
		return
	}
	f, err := codec.ParseFormat(typ)
	if err != nil {
		s.reject(w, r, "Invalid type. Supported types: "+strings.Join(codec.FormatNames(), ", "))
		return
	}

	output, err := s.run(r, f, dir, text)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Timestamp: s.timestamp(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, EncodeDecodeResponse{
		Success:   true,
		Operation: string(dir),
		Type:      f.String(),
		Input:     text,
		Output:    output,
		Timestamp: s.timestamp(),
	})
}

// handleExecute runs a single codec from a JSON body.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	f, err := codec.ParseFormat(req.Format)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorOutput(err))
		return
	}
	dir := codec.DirectionEncode
	if req.Direction != "" {
		if dir, err = codec.ParseDirection(req.Direction); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	output, err := s.run(r, f, dir, req.Input)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorOutput(err))
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: output})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	start := time.Now()
	candidates := s.detector.Detect(req.Input)
	metrics.ObserveOperation("detect", "", metrics.ResultOK, time.Since(start))
	metrics.ObserveDetectCandidates(len(candidates))

	event := logging.AuditEvent{
		RequestID: RequestID(r.Context()),
		EventType: logging.EventCodecDetect,
		Outcome:   logging.OutcomeSuccess,
		Metadata: map[string]any{
			"input_length": len(req.Input),
			"candidates":   len(candidates),
		},
	}
	if len(candidates) > 0 {
		event.Format = candidates[0].Format.String()
	}
	s.emit(event)

	s.writeJSON(w, http.StatusOK, DetectResponse{Candidates: candidates})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var formats []codec.Format
	if family := strings.TrimSpace(r.URL.Query().Get("family")); family != "" {
		formats = codec.FormatsByFamily(codec.Family(strings.ToLower(family)))
	} else {
		formats = codec.Formats()
	}
	infos := make([]codec.Info, 0, len(formats))
	for _, f := range formats {
		infos = append(infos, codec.Describe(f))
	}
	s.writeJSON(w, http.StatusOK, FormatsResponse{Formats: infos})
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(req.Steps) == 0 {
		http.Error(w, "steps field is required and must not be empty", http.StatusBadRequest)
		return
	}

	pipeline := &codec.Pipeline{Steps: make([]codec.Step, 0, len(req.Steps))}
	for _, step := range req.Steps {
		f, err := codec.ParseFormat(step.Format)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorOutput(err))
			return
		}
		dir := codec.DirectionEncode
		if step.Direction != "" {
			if dir, err = codec.ParseDirection(step.Direction); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		pipeline.Steps = append(pipeline.Steps, codec.Step{Format: f, Direction: dir})
	}
	if req.Reverse {
		reversed, err := pipeline.Reverse()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pipeline = reversed
	}

	start := time.Now()
	output, err := pipeline.Run(s.table, req.Input)
	metrics.ObserveOperation("pipeline", "", resultOf(err), time.Since(start))
	s.emit(logging.AuditEvent{
		RequestID: RequestID(r.Context()),
		EventType: logging.EventPipelineRun,
		Outcome:   outcomeOf(err),
		Reason:    reasonOf(err),
		Metadata: map[string]any{
			"input_length": len(req.Input),
			"steps":        len(pipeline.Steps),
		},
	})
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorOutput(err))
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: output})
}

// run applies one codec, recording the outcome in metrics and the audit log.
func (s *Server) run(r *http.Request, f codec.Format, dir codec.Direction, text string) (string, error) {
	start := time.Now()
	var (
		output string
		err    error
		event  = logging.EventCodecEncode
	)
	if dir == codec.DirectionDecode {
		event = logging.EventCodecDecode
		output, err = s.table.Decode(f, text)
	} else {
		output, err = s.table.Encode(f, text)
	}
	metrics.ObserveOperation(string(dir), f.String(), resultOf(err), time.Since(start))
	s.emit(logging.AuditEvent{
		RequestID: RequestID(r.Context()),
		EventType: event,
		Format:    f.String(),
		Outcome:   outcomeOf(err),
		Reason:    reasonOf(err),
		Metadata:  map[string]any{"input_length": len(text)},
	})
	return output, err
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, msg string) {
	s.emit(logging.AuditEvent{
		RequestID: RequestID(r.Context()),
		EventType: logging.EventRequestRejected,
		Outcome:   logging.OutcomeFailure,
		Reason:    msg,
	})
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Timestamp: s.timestamp()})
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func errorOutput(err error) OutputResponse {
	resp := OutputResponse{Error: err.Error()}
	if kind := codec.KindOf(err); kind != 0 {
		resp.Kind = kind.String()
	}
	return resp
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, codec.ErrExecutionLimitExceeded):
		return metrics.ResultLimit
	default:
		return metrics.ResultError
	}
}

func outcomeOf(err error) logging.Outcome {
	if err != nil {
		return logging.OutcomeFailure
	}
	return logging.OutcomeSuccess
}

func reasonOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
