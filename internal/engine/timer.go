package engine

import "time"

// Timer measures the time between loop iterations.
type Timer struct {
	lastLoop time.Time
	now      func() time.Time
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

func (t *Timer) Init() {
	t.lastLoop = t.now()
}

// Time returns the current time in seconds.
func (t *Timer) Time() float64 {
	return float64(t.now().UnixNano()) / 1e9
}

// ElapsedTime returns the seconds since the previous call, or since Init.
func (t *Timer) ElapsedTime() float64 {
	now := t.now()
	elapsed := now.Sub(t.lastLoop).Seconds()
	t.lastLoop = now
	return elapsed
}

func (t *Timer) LastLoopTime() time.Time {
	return t.lastLoop
}
