package mocks

import "github.com/user/frameharvest/pkg/ports"

// Progress is a mock implementation of ports.Progress.
type Progress struct {
	Total    int
	Done     int
	Finished bool

	// Grown counts AddTotal calls made after the first Increment.
	Grown int
}

func (p *Progress) AddTotal(n int) {
	if p.Done > 0 {
		p.Grown++
	}
	p.Total += n
}

func (p *Progress) Increment() {
	p.Done++
}

func (p *Progress) Finish() {
	p.Finished = true
}

var _ ports.Progress = (*Progress)(nil)

// ProgressFactory is a mock implementation of ports.ProgressFactory.
type ProgressFactory struct {
	Bars map[string]*Progress
}

// NewProgressFactory creates a factory that records every bar by description.
func NewProgressFactory() *ProgressFactory {
	return &ProgressFactory{Bars: make(map[string]*Progress)}
}

func (f *ProgressFactory) New(description string) ports.Progress {
	p := &Progress{}
	f.Bars[description] = p
	return p
}

var _ ports.ProgressFactory = (*ProgressFactory)(nil)
