package relay

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/harlequix/hamrelay/backends"
	"github.com/harlequix/hamrelay/channel"
	"github.com/harlequix/hamrelay/internal/stream"
	log "github.com/harlequix/hamrelay/log"
	"github.com/harlequix/hamrelay/payload"
	"github.com/harlequix/hamrelay/stats"
)

var logger *log.Logger

func init() {
	logger = log.NewLogger("Relay")
}

var ErrUnknownClass = errors.New("unknown traffic class")

// Consumer receives every successfully reconstructed payload.
type Consumer interface {
	Deliver(ctx context.Context, payload []byte) error
}

type Class struct {
	Name      string
	Route     string
	Simulator *channel.Simulator
	Consumer  Consumer
}

// Relay pushes payloads through the Hamming codec and the simulated
// channel. Transmissions share nothing but the random source, so Transmit
// may be called from many goroutines.
type Relay struct {
	config  *Config
	format  payload.Format
	encoder *stream.Encoder
	classes map[string]*Class
	stats   stats.Manager
	Debug   DebugInterface
	logger  *log.Logger
}

func NewRelay(config *Config, source channel.Source) (*Relay, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		source = channel.NewSeededSource(config.Seed)
	}
	format, err := payload.ByName(config.PayloadFormat)
	if err != nil {
		return nil, err
	}
	format = payload.Limit{Inner: format, Max: config.MaxPayload}
	classes := make(map[string]*Class, len(config.Classes))
	for name, classConfig := range config.Classes {
		profile, err := config.Profile(name)
		if err != nil {
			return nil, err
		}
		simulator, err := channel.NewSimulator(profile, source)
		if err != nil {
			return nil, err
		}
		backend, err := backends.New(classConfig.Backend, classConfig.Target, classConfig.Timeout, format.ContentType())
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", name, err)
		}
		classes[name] = &Class{
			Name:      name,
			Route:     classConfig.Route,
			Simulator: simulator,
			Consumer:  backend,
		}
		logger.WithField("class", name).WithField("profile", profile).WithField("target", classConfig.Target).Debug("Configured class")
	}
	return &Relay{
		config:  config,
		format:  format,
		encoder: stream.NewEncoder(config.BlockSize),
		classes: classes,
		stats:   stats.Discard{},
		Debug:   NewDebugger(),
		logger:  logger,
	}, nil
}

func (self *Relay) SetConsumer(class string, consumer Consumer) error {
	c, ok := self.classes[class]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	c.Consumer = consumer
	return nil
}

func (self *Relay) SetStats(manager stats.Manager) {
	self.stats = manager
}

func (self *Relay) Format() payload.Format {
	return self.format
}

func (self *Relay) Class(name string) (*Class, bool) {
	c, ok := self.classes[name]
	return c, ok
}

// ClassNames returns the configured classes in sorted order.
func (self *Relay) ClassNames() []string {
	names := make([]string, 0, len(self.classes))
	for name := range self.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TransmitDocument serializes doc with the relay's payload format and
// transmits it.
func (self *Relay) TransmitDocument(ctx context.Context, class string, doc interface{}) (*Result, error) {
	b, err := self.format.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing %s document: %w", self.format.Name(), err)
	}
	return self.Transmit(ctx, class, b)
}

// Transmit runs one payload through the pipeline. The error is only set for
// an unknown class; everything that happens to the payload is in the Result.
func (self *Relay) Transmit(ctx context.Context, class string, b []byte) (*Result, error) {
	c, ok := self.classes[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	record := stats.MeasureStart(class)
	result := self.transmit(ctx, c, b)
	self.stats.Place(record.Finish(result.Outcome.String(), result.Corrupted(), len(result.Corrected)))
	return result, nil
}

func (self *Relay) transmit(ctx context.Context, c *Class, b []byte) *Result {
	logger := self.logger.WithField("class", c.Name)
	result := &Result{
		Class:      c.Name,
		FlippedBit: -1,
	}

	encoded, err := self.encoder.EncodePayload(b)
	if err != nil {
		return self.fail(result, DecodeFailed, EventDecodeFailed, err)
	}
	logger.WithField("bytes", len(b)).WithField("bits", len(encoded)).Trace("Encoded payload")

	received, flipped := c.Simulator.MaybeCorrupt(encoded)
	if flipped >= 0 {
		result.FlippedBit = flipped
		self.Debug.Emit(EventCorrupted, fmt.Sprintf("%s: bit %d flipped", c.Name, flipped))
		logger.WithField("bit", flipped).Debug("Bit corrupted")
	}
	if c.Simulator.MaybeDrop() {
		result.Outcome = Dropped
		self.Debug.Emit(EventDropped, c.Name)
		logger.Debug("Packet lost")
		return result
	}

	var doc interface{}
	decoder := stream.NewDecoder(self.config.BlockSize, func(p []byte) error {
		var err error
		doc, err = self.format.Unmarshal(p)
		return err
	})
	report, err := decoder.Decode(received)
	if err != nil {
		return self.fail(result, DecodeFailed, EventDecodeFailed, err)
	}
	result.Payload = report.Payload
	result.Document = doc
	result.Corrected = report.Corrected
	logger.WithField("corrected", report.Corrected).Trace("Decoded payload")

	if err := deliver(ctx, c.Consumer, report.Payload); err != nil {
		return self.fail(result, DeliveryFailed, EventDeliveryFailed, err)
	}
	result.Outcome = Delivered
	self.Debug.Emit(EventDelivered, c.Name)
	logger.Debug("Delivered payload")
	return result
}

func (self *Relay) fail(result *Result, outcome Outcome, event string, err error) *Result {
	result.Outcome = outcome
	result.Err = err
	self.Debug.Emit(event, err.Error())
	self.logger.WithField("class", result.Class).WithField("outcome", outcome.String()).WithError(err).Warn("Transmission failed")
	return result
}

// deliver keeps a misbehaving consumer from taking the caller down.
func deliver(ctx context.Context, consumer Consumer, b []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("consumer panicked: %v", r)
		}
	}()
	return consumer.Deliver(ctx, b)
}
