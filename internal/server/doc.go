// Package server implements the MCP (Model Context Protocol) front door of
// the word recognizer.
//
// A front end, whether a chat client or a thin GUI, drives one recognition
// session through tool calls. The server owns no recognition logic; every
// call maps onto a recognize.Session transition and returns the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session workflow, in call order:
//   - zyron_load: Load a word image (Idle -> Captured)
//   - zyron_segment: Cut and normalize slots (-> Normalized)
//   - zyron_match: Score slots against the library (-> Ranked)
//   - zyron_rank: Rank dictionary words (-> AwaitingConfirmation)
//   - zyron_confirm: Learn the confirmed word (-> Learned)
//   - zyron_discard: Abandon the word (-> Discarded)
//
// Inspection:
//   - zyron_status: State, history and settings
//   - zyron_slot_preview: One slot and its ink mask as PNG
//   - zyron_ocr_hint: Tesseract reading of the loaded word
//
// # Progress
//
// zyron_match emits a notifications/progress message after each slot. The
// progress token is taken from the request's _meta.progressToken, falling
// back to the request ID.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: Invalid arguments or a call out of workflow order
//   - -32000: Any other failure, such as a library write error
//
// The data field carries the Go error string.
//
// # Usage
//
//	repo := store.NewFS(cfg.Library.Dir, cfg.Library.DictionaryPath, store.FSOptions{})
//	srv := server.New(server.Options{Config: cfg, Repository: repo})
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
