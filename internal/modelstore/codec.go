package modelstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"studypal/internal/domain"
)

// Kind tags the model type inside a blob header.
type Kind byte

const (
	KindClassifier Kind = 1
	KindClusterer  Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindClassifier:
		return "classifier"
	case KindClusterer:
		return "clusterer"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// SchemaVersion is bumped whenever a persisted state layout changes.
const SchemaVersion uint16 = 1

var magic = [4]byte{'S', 'P', 'M', 'L'}

const headerLen = len(magic) + 1 + 2

// Encode writes the blob header followed by the msgpack encoding of v.
func Encode(kind Kind, v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(byte(kind))
	var ver [2]byte
	binary.BigEndian.PutUint16(ver[:], SchemaVersion)
	buf.Write(ver[:])
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return buf.Bytes(), nil
}

// Decode checks the header of data against kind and SchemaVersion, then
// decodes the payload into v. Header mismatches return
// domain.ErrIncompatibleModelVersion without touching v.
func Decode(data []byte, kind Kind, v any) error {
	if len(data) < headerLen || !bytes.Equal(data[:len(magic)], magic[:]) {
		return fmt.Errorf("decode %s: %w: bad magic", kind, domain.ErrIncompatibleModelVersion)
	}
	if got := Kind(data[len(magic)]); got != kind {
		return fmt.Errorf("decode %s: %w: blob holds %s", kind, domain.ErrIncompatibleModelVersion, got)
	}
	if ver := binary.BigEndian.Uint16(data[len(magic)+1 : headerLen]); ver != SchemaVersion {
		return fmt.Errorf("decode %s: %w: schema %d, want %d", kind, domain.ErrIncompatibleModelVersion, ver, SchemaVersion)
	}
	if err := msgpack.Unmarshal(data[headerLen:], v); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}
