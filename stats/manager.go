package stats

import (
	"context"
	"time"

	log "github.com/harlequix/hamrelay/log"
)

type Manager interface {
	Place(*Record)
	Summary() Summary
}

type Summary struct {
	Transmissions   uint64
	Outcomes        map[string]uint64
	Corrupted       uint64
	CorrectedBlocks uint64
	AvgLatency      time.Duration
}

// Rate is the share of transmissions that ended in outcome.
func (self Summary) Rate(outcome string) float64 {
	if self.Transmissions == 0 {
		return 0
	}
	return float64(self.Outcomes[outcome]) / float64(self.Transmissions)
}

func (self Summary) CorruptionRate() float64 {
	if self.Transmissions == 0 {
		return 0
	}
	return float64(self.Corrupted) / float64(self.Transmissions)
}

// StatsManager owns its counters in a single goroutine. Place and Summary
// talk to it over channels.
type StatsManager struct {
	summary     Summary
	latency     int64
	signalChan  chan bool
	summaryChan chan Summary
	recordChan  chan *Record
	done        <-chan struct{}
	logger      *log.Logger
}

func NewStatsManager(con context.Context) *StatsManager {
	manager := &StatsManager{
		summary: Summary{
			Outcomes: make(map[string]uint64),
		},
		signalChan:  make(chan bool),
		summaryChan: make(chan Summary),
		recordChan:  make(chan *Record, 128),
		done:        con.Done(),
		logger:      log.NewLogger("Stats"),
	}
	go manager.Start(con)
	return manager
}

func movingAverage(old int64, new int64) int64 {
	alpha := 0.1
	var updated float64
	if old == 0 {
		updated = float64(new)
	} else {
		updated = (1.0-alpha)*float64(old) + alpha*float64(new)
	}
	return int64(updated)
}

func (self *StatsManager) add(record *Record) {
	self.summary.Transmissions++
	self.summary.Outcomes[record.Outcome]++
	if record.Corrupted {
		self.summary.Corrupted++
	}
	self.summary.CorrectedBlocks += uint64(record.Corrected)
	if dur := record.Duration(); dur > 0 {
		saved := self.latency
		self.latency = movingAverage(self.latency, dur.Nanoseconds())
		self.logger.WithField("old", saved).WithField("new", self.latency).WithField("update", dur).Trace("update latency")
	}
}

func (self *StatsManager) snapshot() Summary {
	out := self.summary
	out.Outcomes = make(map[string]uint64, len(self.summary.Outcomes))
	for outcome, count := range self.summary.Outcomes {
		out.Outcomes[outcome] = count
	}
	out.AvgLatency = time.Duration(self.latency)
	return out
}

func (self *StatsManager) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-self.recordChan:
			self.add(record)
		case <-self.signalChan:
			// records placed before the query are counted
			for drained := false; !drained; {
				select {
				case record := <-self.recordChan:
					self.add(record)
				default:
					drained = true
				}
			}
			self.summaryChan <- self.snapshot()
		}
	}
}

func (self *StatsManager) Place(record *Record) {
	select {
	case self.recordChan <- record:
	case <-self.done:
	}
}

// Summary returns the counters so far, or an empty summary once the manager
// has stopped.
func (self *StatsManager) Summary() Summary {
	select {
	case self.signalChan <- true:
		return <-self.summaryChan
	case <-self.done:
		return Summary{Outcomes: make(map[string]uint64)}
	}
}

// Discard drops every record, for callers that do not keep statistics.
type Discard struct{}

func (Discard) Place(*Record) {}
func (Discard) Summary() Summary {
	return Summary{Outcomes: make(map[string]uint64)}
}
