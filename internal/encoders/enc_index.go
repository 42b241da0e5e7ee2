package encoders

import (
	"fmt"
)

type encoderFactory = func() (Encoder, error)

// Index of supported codecs, each encoder registers itself from its own
// file so codecs can be compiled in or out independently.
var registeredEncoders = make(map[ImageCodec]encoderFactory, 2)

// EncoderService creates instances of encoders
type EncoderService struct {
}

// NewEncoderService creates an encoder factory
func NewEncoderService() Service {
	return &EncoderService{}
}

// NewEncoder creates an instance of an encoder of the selected codec
func (*EncoderService) NewEncoder(codec ImageCodec) (Encoder, error) {
	factory, found := registeredEncoders[codec]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrCodecNotSupported, CodecName(codec))
	}
	return factory()
}

// Supports returns a boolean indicating if the codec is supported
func (*EncoderService) Supports(codec ImageCodec) bool {
	_, found := registeredEncoders[codec]
	return found
}
