package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/zyron/internal/imaging"
	"github.com/ironsheep/zyron/internal/ocr"
	"github.com/ironsheep/zyron/internal/recognize"
	"github.com/ironsheep/zyron/internal/store"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "zyron_load", "zyron_match").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token of the request.
	Meta *struct {
		ProgressToken interface{} `json:"progressToken,omitempty"`
	} `json:"_meta,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Rejected input and out-of-order calls use -32602 so a client can tell them
// apart from storage failures.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	token := req.ID
	if params.Meta != nil && params.Meta.ProgressToken != nil {
		token = params.Meta.ProgressToken
	}

	result, err := s.executeTool(params.Name, params.Arguments, token)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Info("tool failed")
		var invalid *recognize.InvalidInputError
		if errors.As(err, &invalid) || errors.Is(err, recognize.ErrInvalidTransition) {
			return s.errorResponse(req.ID, -32602, "Invalid tool call", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage, token interface{}) (interface{}, error) {
	switch name {
	// Session workflow
	case "zyron_load":
		return s.handleLoad(args)
	case "zyron_segment":
		return s.handleSegment(args)
	case "zyron_match":
		return s.handleMatch(args, token)
	case "zyron_rank":
		return s.handleRank(args)
	case "zyron_confirm":
		return s.handleConfirm(args)
	case "zyron_discard":
		return s.handleDiscard(args)

	// Inspection
	case "zyron_status":
		return s.handleStatus(args)
	case "zyron_slot_preview":
		return s.handleSlotPreview(args)
	case "zyron_ocr_hint":
		return s.handleOCRHint(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals optional tool arguments into v.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &recognize.InvalidInputError{Field: "arguments", Reason: err.Error()}
	}
	return nil
}

// === Session Workflow Handlers ===

type loadArgs struct {
	Path string `json:"path"`
}

type loadResult struct {
	*imaging.ImageInfo
	State string `json:"state"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, &recognize.InvalidInputError{Field: "path", Reason: "required"}
	}

	raster, info, err := imaging.LoadImageInfo(a.Path)
	if err != nil {
		return nil, err
	}
	if err := s.session.Capture(raster); err != nil {
		return nil, err
	}
	return &loadResult{ImageInfo: info, State: s.session.State().String()}, nil
}

type segmentArgs struct {
	Preview   bool   `json:"preview"`
	LineColor string `json:"line_color"`
}

type slotInfo struct {
	Index int          `json:"index"`
	Span  imaging.Span `json:"span"`
	Width int          `json:"width"`
}

type segmentResult struct {
	SlotCount int        `json:"slot_count"`
	Slots     []slotInfo `json:"slots"`
	State     string     `json:"state"`

	// Overlay is a base64 PNG of the word with slot boundaries drawn in.
	Overlay string `json:"overlay,omitempty"`
}

func (s *Server) handleSegment(args json.RawMessage) (interface{}, error) {
	a := segmentArgs{LineColor: "#FF0000"}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	c, err := imaging.ParseHexColor(a.LineColor)
	if err != nil {
		return nil, &recognize.InvalidInputError{Field: "line_color", Reason: err.Error()}
	}

	slots, err := s.session.Segment()
	if err != nil {
		return nil, err
	}

	result := &segmentResult{
		SlotCount: len(slots),
		Slots:     make([]slotInfo, len(slots)),
		State:     s.session.State().String(),
	}
	spans := make([]imaging.Span, len(slots))
	for i, slot := range slots {
		result.Slots[i] = slotInfo{Index: slot.Index, Span: slot.Span, Width: slot.Span.X2 - slot.Span.X1}
		spans[i] = slot.Span
	}

	if a.Preview {
		overlay := imaging.SpanOverlay(s.session.Raw(), spans, c, true)
		encoded, err := imaging.PNGBase64(overlay)
		if err != nil {
			return nil, err
		}
		result.Overlay = encoded
	}
	return result, nil
}

type matchArgs struct {
	Top int `json:"top"`
}

type slotMatch struct {
	Index  int                  `json:"index"`
	Best   recognize.Confidence `json:"best"`
	Letter string               `json:"letter"`
}

type matchResult struct {
	Slots []slotMatch `json:"slots"`
	State string      `json:"state"`
}

type progressParams struct {
	ProgressToken interface{} `json:"progressToken"`
	Progress      int         `json:"progress"`
	Total         int         `json:"total"`
	Message       string      `json:"message,omitempty"`
}

func (s *Server) handleMatch(args json.RawMessage, token interface{}) (interface{}, error) {
	a := matchArgs{Top: 5}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Top <= 0 || a.Top > len(store.Letters) {
		a.Top = len(store.Letters)
	}

	progress := func(done, total int) {
		s.notify("notifications/progress", &progressParams{
			ProgressToken: token,
			Progress:      done,
			Total:         total,
			Message:       fmt.Sprintf("%d%% characters converted", done*100/total),
		})
	}

	mappings, err := s.session.Match(context.Background(), progress)
	if err != nil {
		return nil, err
	}

	result := &matchResult{
		Slots: make([]slotMatch, len(mappings)),
		State: s.session.State().String(),
	}
	for i, m := range mappings {
		result.Slots[i] = slotMatch{Index: i, Best: m.Top(a.Top), Letter: string(m[0].Letter)}
	}
	return result, nil
}

type rankResult struct {
	Candidates []recognize.Candidate `json:"candidates"`
	State      string                `json:"state"`
}

func (s *Server) handleRank(args json.RawMessage) (interface{}, error) {
	candidates, err := s.session.Score()
	if err != nil {
		return nil, err
	}
	return &rankResult{Candidates: candidates, State: s.session.State().String()}, nil
}

type confirmArgs struct {
	Word string `json:"word"`
}

type confirmResult struct {
	*recognize.Confirmation
	State string `json:"state"`
}

func (s *Server) handleConfirm(args json.RawMessage) (interface{}, error) {
	var a confirmArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	conf, err := s.session.Confirm(a.Word)
	if err != nil {
		return nil, err
	}
	return &confirmResult{Confirmation: conf, State: s.session.State().String()}, nil
}

type stateResult struct {
	State string `json:"state"`
}

func (s *Server) handleDiscard(args json.RawMessage) (interface{}, error) {
	if err := s.session.Discard(); err != nil {
		return nil, err
	}
	return &stateResult{State: s.session.State().String()}, nil
}

// === Inspection Handlers ===

type statusResult struct {
	State        string   `json:"state"`
	History      []string `json:"history"`
	SlotCount    int      `json:"slot_count"`
	Words        int      `json:"dictionary_words"`
	Workers      int      `json:"workers"`
	Dimension    int      `json:"dimension"`
	Threshold    int      `json:"dark_threshold"`
	LibraryDir   string   `json:"library_dir"`
	Dictionary   string   `json:"dictionary_path"`
	AudioEnabled bool     `json:"audio_enabled"`
	MusicEnabled bool     `json:"music_enabled"`
	OCRAvailable bool     `json:"ocr_available"`
	Version      string   `json:"version"`
}

func (s *Server) handleStatus(args json.RawMessage) (interface{}, error) {
	history := s.session.History()
	names := make([]string, len(history))
	for i, st := range history {
		names[i] = st.String()
	}

	words, err := s.engine.Dictionary()
	if err != nil {
		return nil, err
	}

	opts := s.engine.Options()
	return &statusResult{
		State:        s.session.State().String(),
		History:      names,
		SlotCount:    len(s.session.Slots()),
		Words:        len(words),
		Workers:      opts.Workers,
		Dimension:    opts.Dimension,
		Threshold:    int(opts.Threshold),
		LibraryDir:   s.cfg.Library.Dir,
		Dictionary:   s.cfg.Library.DictionaryPath,
		AudioEnabled: s.cfg.Presentation.AudioEnabled,
		MusicEnabled: s.cfg.Presentation.MusicEnabled,
		OCRAvailable: ocr.Available(),
		Version:      s.version,
	}, nil
}

type slotPreviewArgs struct {
	Index int    `json:"index"`
	Ink   string `json:"ink"`
	Paper string `json:"paper"`
}

type slotPreviewResult struct {
	Index int `json:"index"`

	// Raw is the segmented slot as a base64 PNG.
	Raw string `json:"raw"`

	// Mask is the normalized ink mask rendered as a base64 PNG.
	Mask    string  `json:"mask"`
	InkRate float64 `json:"ink_rate"`
}

func (s *Server) handleSlotPreview(args json.RawMessage) (interface{}, error) {
	a := slotPreviewArgs{Ink: "#000000", Paper: "#FFFFFF"}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	slots := s.session.Slots()
	if a.Index < 0 || a.Index >= len(slots) {
		return nil, &recognize.InvalidInputError{
			Field:  "index",
			Reason: fmt.Sprintf("%d out of range, %d slots", a.Index, len(slots)),
		}
	}
	ink, err := imaging.ParseHexColor(a.Ink)
	if err != nil {
		return nil, &recognize.InvalidInputError{Field: "ink", Reason: err.Error()}
	}
	paper, err := imaging.ParseHexColor(a.Paper)
	if err != nil {
		return nil, &recognize.InvalidInputError{Field: "paper", Reason: err.Error()}
	}

	slot := slots[a.Index]
	raw, err := imaging.PNGBase64(slot.Raw.Image())
	if err != nil {
		return nil, err
	}
	mask, err := imaging.PNGBase64(slot.Mask.Render(ink, paper))
	if err != nil {
		return nil, err
	}

	total := slot.Mask.Width() * slot.Mask.Height()
	rate := 0.0
	if total > 0 {
		rate = float64(slot.Mask.Ink()) / float64(total)
	}
	return &slotPreviewResult{Index: a.Index, Raw: raw, Mask: mask, InkRate: rate}, nil
}

type ocrHintArgs struct {
	Language string `json:"language"`
}

func (s *Server) handleOCRHint(args json.RawMessage) (interface{}, error) {
	a := ocrHintArgs{Language: s.cfg.OCR.Language}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	raw := s.session.Raw()
	if raw.Empty() {
		return nil, fmt.Errorf("ocr hint needs a loaded word: %w", recognize.ErrInvalidTransition)
	}
	return ocr.SuggestWord(raw, a.Language)
}
