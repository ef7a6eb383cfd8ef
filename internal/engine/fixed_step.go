package engine

// fixedStep spreads variable frame times over fixed-size update steps.
type fixedStep struct {
	interval    float64
	accumulator float64
}

func newFixedStep(ups int) *fixedStep {
	return &fixedStep{interval: 1 / float64(ups)}
}

func (f *fixedStep) Add(elapsed float64) {
	f.accumulator += elapsed
}

// Next consumes one interval and reports whether one was available.
func (f *fixedStep) Next() bool {
	if f.accumulator < f.interval {
		return false
	}
	f.accumulator -= f.interval
	return true
}

// Interval returns the step length in seconds.
func (f *fixedStep) Interval() float64 { return f.interval }
