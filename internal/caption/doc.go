// Package caption holds the central editing model: cues, the ordered track
// that owns them, and the named styles cues reference.
//
// A Track is exclusively owned by the session that created it, whether that
// session is an orchestration run's output or direct manual edits. Nothing in
// this package locks; multi-writer editing is out of scope by design.
package caption
