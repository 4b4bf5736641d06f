package relay

// Outcome is how a transmission ended.
type Outcome int

const (
	Delivered Outcome = iota
	Dropped
	DecodeFailed
	DeliveryFailed
)

func (self Outcome) String() string {
	switch self {
	case Delivered:
		return "delivered"
	case Dropped:
		return "dropped"
	case DecodeFailed:
		return "decode_failed"
	case DeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

type Result struct {
	Class   string
	Outcome Outcome
	// Payload and Document are set once decoding succeeded.
	Payload  []byte
	Document interface{}
	// FlippedBit is the stream index the channel flipped, -1 for a clean pass.
	FlippedBit int
	Corrected  []int
	Err        error
}

func (self *Result) Corrupted() bool {
	return self.FlippedBit >= 0
}
