package id

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1.String(), id2.String())
	assert.Len(t, id1.String(), 26)
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{ProcPrefix, ConnPrefix} {
		got := gen.GenerateWithPrefix(prefix)

		parts := strings.Split(got, "_")
		require.Len(t, parts, 2, "prefixed ID should be prefix_ulid: %s", got)
		assert.Equal(t, prefix, parts[0])
		assert.True(t, IsValid(parts[1]))
	}
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewProcID().String(), "proc_"))
	assert.True(t, strings.HasPrefix(NewConnID().String(), "conn_"))
	assert.NotEqual(t, NewProcID(), NewProcID())
}

func TestDeterministicEntropy(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x42}, 64)
	a := NewGeneratorWithEntropy(bytes.NewReader(entropy)).Generate()
	b := NewGeneratorWithEntropy(bytes.NewReader(entropy)).Generate()

	assert.Equal(t, a.Entropy(), b.Entropy())
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewGenerator().Generate().String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("not-a-ulid")
	assert.Error(t, err)
	assert.False(t, IsValid("not-a-ulid"))
}
