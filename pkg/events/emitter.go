package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/common/constant"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/nats-io/nats.go"
)

// DrawEvent is the envelope published for every newly synced draw.
type DrawEvent struct {
	Type      string       `json:"type"`
	Game      string       `json:"game"`
	Data      lottery.Draw `json:"data"`
	Timestamp int64        `json:"timestamp"`
}

type Emitter interface {
	EmitDraw(d lottery.Draw) error
	Subject() string
	Close()
}

// Conn is the part of *nats.Conn the emitter needs.
type Conn interface {
	Publish(subject string, data []byte) error
	Flush() error
}

type emitter struct {
	conn    Conn
	subject string
	game    string
	now     func() time.Time
}

func DrawSubject(prefix string) string {
	return prefix + "." + constant.DrawSyncedEventType
}

func NewEmitter(conn Conn, subjectPrefix string) Emitter {
	return &emitter{
		conn:    conn,
		subject: DrawSubject(subjectPrefix),
		game:    subjectPrefix,
		now:     time.Now,
	}
}

func (e *emitter) EmitDraw(d lottery.Draw) error {
	data, err := json.Marshal(DrawEvent{
		Type:      constant.DrawSyncedEventType,
		Game:      e.game,
		Data:      d,
		Timestamp: e.now().UTC().Unix(),
	})
	if err != nil {
		return err
	}
	if err := e.conn.Publish(e.subject, data); err != nil {
		return fmt.Errorf("publish contest %d: %w", d.Contest, err)
	}
	return nil
}

func (e *emitter) Subject() string {
	return e.subject
}

func (e *emitter) Close() {
	if e.conn == nil {
		return
	}
	_ = e.conn.Flush()
	if nc, ok := e.conn.(*nats.Conn); ok {
		nc.Close()
	}
}

type noopEmitter struct{}

// NewNoopEmitter is used when NATS is disabled.
func NewNoopEmitter() Emitter { return noopEmitter{} }

func (noopEmitter) EmitDraw(lottery.Draw) error { return nil }
func (noopEmitter) Subject() string             { return "" }
func (noopEmitter) Close()                      {}

// Decode parses a message published by EmitDraw.
func Decode(data []byte) (DrawEvent, error) {
	var ev DrawEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return DrawEvent{}, fmt.Errorf("decode draw event: %w", err)
	}
	return ev, nil
}
