package serialization

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Records are encoded in canonical CBOR so that equal records
// always produce equal bytes.
var encMode, decMode = mustCreateModes()

func mustCreateModes() (cbor.EncMode, cbor.DecMode) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dec, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return enc, dec
}

func marshal(value interface{}) ([]byte, error) {
	data, err := encMode.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed encoding %T", value)
	}
	return data, nil
}

func unmarshal(data []byte, value interface{}) error {
	err := decMode.Unmarshal(data, value)
	if err != nil {
		return errors.Wrapf(err, "failed decoding %T", value)
	}
	return nil
}
