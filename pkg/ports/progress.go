package ports

// Progress tracks work across a run. The total may grow while work is in flight,
// as happens when a video's length is only discovered by reading to its end.
type Progress interface {
	AddTotal(n int)
	Increment()
	Finish()
}

// ProgressFactory creates one Progress per phase of a run.
type ProgressFactory interface {
	New(description string) Progress
}
