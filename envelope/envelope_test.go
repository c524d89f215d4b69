package envelope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsfard/foundationdb/ferr"
)

func TestWriteReadRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	const trailerStart, rootAddr = 24, 10
	Write(buf[trailerStart:], rootAddr-trailerStart, 0xcafef00d)

	addr, err := Read(buf, 0xcafef00d)
	require.NoError(t, err)
	require.Equal(t, rootAddr, addr)
}

func TestReadRejectsWrongFileIdentifier(t *testing.T) {
	buf := make([]byte, 32)
	Write(buf[24:], 0, 0xcafef00d)

	_, err := Read(buf, 0xdeadbeef)
	require.Error(t, err)
	require.True(t, ferr.Is(err, ferr.BadFileIdentifier))
}

func TestReadRejectsTruncatedBuffer(t *testing.T) {
	_, err := Read(make([]byte, 4), 0)
	require.Error(t, err)
	require.True(t, ferr.Is(err, ferr.Truncated))
}
