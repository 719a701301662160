package events

import (
	"errors"
	"testing"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	flushed  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Flush() error {
	f.flushed = true
	return nil
}

func TestEmitter_EmitDraw(t *testing.T) {
	conn := &fakeConn{}
	e := NewEmitter(conn, "megasena").(*emitter)
	e.now = func() time.Time { return time.Unix(1700000000, 0) }

	d := lottery.NewDraw(2800, "11/12/2024", []int{41, 5, 4, 52, 30, 33})
	require.NoError(t, e.EmitDraw(d))

	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "megasena.draw.synced", conn.subjects[0])
	assert.Equal(t, "megasena.draw.synced", e.Subject())

	ev, err := Decode(conn.payloads[0])
	require.NoError(t, err)
	assert.Equal(t, "draw.synced", ev.Type)
	assert.Equal(t, "megasena", ev.Game)
	assert.Equal(t, int64(1700000000), ev.Timestamp)
	assert.Equal(t, 2800, ev.Data.Contest)
	assert.Equal(t, []int{4, 5, 30, 33, 41, 52}, ev.Data.NumbersSorted)

	e.Close()
	assert.True(t, conn.flushed)
}

func TestEmitter_PublishError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats down")}
	err := NewEmitter(conn, "megasena").EmitDraw(lottery.NewDraw(1, "", []int{1, 2, 3, 4, 5, 6}))
	assert.ErrorContains(t, err, "contest 1")
}

func TestNoopEmitter(t *testing.T) {
	e := NewNoopEmitter()
	assert.NoError(t, e.EmitDraw(lottery.Draw{}))
	assert.Empty(t, e.Subject())
	e.Close()
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}
