package spinner

var SpinnerChars = `-\|/`

// Spinner emits one frame per call; each frame ends with a backspace so the
// next frame overwrites it in place.
type Spinner struct {
	cnt int
}

func New() *Spinner {
	return &Spinner{}
}

func (s *Spinner) Next() string {
	s.cnt++
	return string([]byte{SpinnerChars[s.cnt%len(SpinnerChars)], '\b'})
}
