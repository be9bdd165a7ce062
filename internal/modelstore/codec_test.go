package modelstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypal/internal/domain"
)

type sample struct {
	Name    string          `msgpack:"name"`
	Weights []float64       `msgpack:"weights"`
	Scores  map[int]float64 `msgpack:"scores"`
}

func TestEncodeDecode(t *testing.T) {
	in := sample{Name: "m", Weights: []float64{0.5, -1.25}, Scores: map[int]float64{2: 0.3, 3: 0.1}}
	data, err := Encode(KindClassifier, in)
	require.NoError(t, err)
	assert.Equal(t, []byte("SPML"), data[:4])
	assert.Equal(t, byte(KindClassifier), data[4])
	assert.Equal(t, []byte{0, 1}, data[5:7])

	var out sample
	require.NoError(t, Decode(data, KindClassifier, &out))
	assert.Equal(t, in, out)
}

func TestDecodeRejectsForeignBlobs(t *testing.T) {
	data, err := Encode(KindClassifier, sample{Name: "m"})
	require.NoError(t, err)

	var out sample
	err = Decode(data, KindClusterer, &out)
	assert.ErrorIs(t, err, domain.ErrIncompatibleModelVersion)

	bumped := append([]byte(nil), data...)
	bumped[6] = 2
	assert.ErrorIs(t, Decode(bumped, KindClassifier, &out), domain.ErrIncompatibleModelVersion)

	assert.ErrorIs(t, Decode([]byte("nope"), KindClassifier, &out), domain.ErrIncompatibleModelVersion)
	assert.ErrorIs(t, Decode(append([]byte("XXXX"), data[4:]...), KindClassifier, &out), domain.ErrIncompatibleModelVersion)
	assert.Empty(t, out.Name)
}

func TestDecodeCorruptPayload(t *testing.T) {
	data, err := Encode(KindClusterer, sample{Name: "m"})
	require.NoError(t, err)

	var out sample
	err = Decode(data[:headerLen+1], KindClusterer, &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrIncompatibleModelVersion)
}
