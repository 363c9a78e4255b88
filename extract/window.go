package extract

// window is a sliding view over the decoded byte stream: a growable buffer
// plus an explicit origin offset mapping buffer positions to stream
// positions. Appends extend the view forward; trims discard the oldest
// bytes and advance the origin. The backing array is reused across trims
// so a long extraction run settles into a steady allocation footprint.
type window struct {
	data   []byte
	origin int64
}

// end returns the stream position one past the last buffered byte.
func (w *window) end() int64 { return w.origin + int64(len(w.data)) }

func (w *window) append(p []byte) {
	w.data = append(w.data, p...)
}

// covers reports whether the half-open stream range [start, end) lies
// entirely inside the buffered view.
func (w *window) covers(start, end int64) bool {
	return start >= w.origin && end <= w.end()
}

// slice copies out the bytes for the stream range [start, end). The caller
// must have checked covers first.
func (w *window) slice(start, end int64) []byte {
	out := make([]byte, end-start)
	copy(out, w.data[start-w.origin:end-w.origin])
	return out
}

// trim discards buffered bytes before keepFrom, which callers choose below
// the smallest still-pending target start so no needed byte is ever lost.
func (w *window) trim(keepFrom int64) {
	if keepFrom <= w.origin {
		return
	}
	if keepFrom >= w.end() {
		// Everything buffered is stale; the origin lands on the next
		// byte the stream will deliver.
		w.origin = w.end()
		w.data = w.data[:0]
		return
	}
	cut := keepFrom - w.origin
	n := copy(w.data, w.data[cut:])
	w.data = w.data[:n]
	w.origin = keepFrom
}
