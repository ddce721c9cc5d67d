package codec

// Null is the value type of plugins without persisted configuration.
type Null struct{}

type nullCodec struct{}

// NullCodec returns the codec used by plugins that have no settings. Decode
// always succeeds and Encode always yields the empty string.
func NullCodec() Codec[Null] {
	return nullCodec{}
}

func (nullCodec) Init() Null { return Null{} }

func (nullCodec) Decode(string) (Null, error) { return Null{}, nil }

func (nullCodec) Encode(Null) (string, error) { return "", nil }
