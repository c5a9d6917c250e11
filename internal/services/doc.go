// Package services defines the error taxonomy shared by the caption engine
// and the context annotations used to scope logs to an orchestration run.
//
// Engine packages never format human-facing prose; they return errors tagged
// with one of the sentinel markers here so callers can classify failures with
// errors.Is and decide how to present them.
package services
