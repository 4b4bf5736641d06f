package channel

import (
	"errors"
	"fmt"

	log "github.com/harlequix/hamrelay/log"
)

var ErrInvalidProbability = errors.New("probability must be within [0, 1]")

// Profile is the noise applied to one traffic class.
type Profile struct {
	BitErrorProbability float64
	LossProbability     float64
}

// inRange is false for NaN.
func inRange(p float64) bool {
	return p >= 0 && p <= 1
}

func (self Profile) Validate() error {
	if !inRange(self.BitErrorProbability) {
		return fmt.Errorf("%w: bit error probability %.3f", ErrInvalidProbability, self.BitErrorProbability)
	}
	if !inRange(self.LossProbability) {
		return fmt.Errorf("%w: loss probability %.3f", ErrInvalidProbability, self.LossProbability)
	}
	return nil
}

type Simulator struct {
	profile Profile
	source  Source
	logger  *log.Logger
}

func NewSimulator(profile Profile, source Source) (*Simulator, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("channel needs a random source")
	}
	return &Simulator{
		profile: profile,
		source:  source,
		logger:  log.NewLogger("Channel"),
	}, nil
}

func (self *Simulator) Profile() Profile {
	return self.profile
}

// MaybeCorrupt flips one uniformly chosen bit with the configured bit error
// probability. It returns a copy of stream and the flipped index, or -1.
func (self *Simulator) MaybeCorrupt(stream []byte) ([]byte, int) {
	out := make([]byte, len(stream))
	copy(out, stream)
	if len(out) == 0 || self.source.Float64() >= self.profile.BitErrorProbability {
		return out, -1
	}
	pos := self.source.Intn(len(out))
	out[pos] ^= 1
	self.logger.WithField("pos", pos).WithField("len", len(out)).Trace("Flipped bit")
	return out, pos
}

// MaybeDrop reports whether the whole message is lost.
func (self *Simulator) MaybeDrop() bool {
	dropped := self.source.Float64() < self.profile.LossProbability
	if dropped {
		self.logger.Trace("Message lost")
	}
	return dropped
}
