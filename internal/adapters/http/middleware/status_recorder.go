// Package middleware holds the inbound HTTP pipeline. The router applies it
// in this order:
//
//	Recovery → RequestID → OpenTelemetry → Logging → Authenticate → Handler
package middleware

import "net/http"

// statusRecorder remembers what was sent to the client so the outer
// middlewares can log, trace and recover after the handler returns.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	committed bool
	bytes     int64
}

// record wraps w once; nested middlewares share the same recorder.
func record(w http.ResponseWriter) *statusRecorder {
	if sr, ok := w.(*statusRecorder); ok {
		return sr
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.committed {
		return
	}
	sr.status, sr.committed = code, true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.committed = true
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// failed reports a server-side failure worth an error log or span status.
func (sr *statusRecorder) failed() bool {
	return sr.status >= http.StatusInternalServerError
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
