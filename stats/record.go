package stats

import (
	"time"
)

// Record describes one finished transmission.
type Record struct {
	Class     string
	Outcome   string
	Corrupted bool
	Corrected int
	Start     time.Time
	End       time.Time
}

func MeasureStart(class string) *Record {
	return &Record{
		Class: class,
		Start: time.Now(),
	}
}

func (self *Record) Finish(outcome string, corrupted bool, corrected int) *Record {
	self.End = time.Now()
	self.Outcome = outcome
	self.Corrupted = corrupted
	self.Corrected = corrected
	return self
}

func (self *Record) Duration() time.Duration {
	if self.Start.IsZero() || self.End.IsZero() {
		return 0
	}
	return self.End.Sub(self.Start)
}
