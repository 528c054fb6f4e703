//go:build !cryptoblob_debug

package cryptoblob

// debugPrint is a no-op in production builds. Build with -tags
// cryptoblob_debug to enable diagnostic tracing (see debug_trace.go); the
// toggle is compile-time only, never a process-wide mutable, per spec §9.
func debugPrint(string, ...any) {}
