// Package actionlog keeps the bounded, operator-visible trail of what the
// engine did. It is feedback, not business data: entries are held in memory
// only and mirrored to the structured logger.
package actionlog

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/jielong/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Capacity is the number of most-recent entries retained.
const Capacity = 50

type Type string

const (
	TypeInfo    Type = "INFO"
	TypeSuccess Type = "SUCCESS"
	TypeWarning Type = "WARNING"
	TypeError   Type = "ERROR"
)

type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Type      Type   `json:"type"`
	Message   string `json:"message"`
}

// Module provides the recorder.
var Module = fx.Module("actionlog", fx.Provide(NewRecorder))

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
}

type Recorder struct {
	mu      sync.Mutex
	log     *zap.Logger
	clk     clock.Clock
	entries []Entry
}

func NewRecorder(p Params) *Recorder {
	return &Recorder{
		log: p.Log.Named("actionlog"),
		clk: p.Clock,
	}
}

// Record appends an entry, newest first, dropping anything past Capacity.
func (r *Recorder) Record(t Type, message string) Entry {
	entry := Entry{
		ID:        ulid.Make().String(),
		Timestamp: r.clk.Now().UnixMilli(),
		Type:      t,
		Message:   message,
	}

	r.mu.Lock()
	r.entries = append([]Entry{entry}, r.entries...)
	if len(r.entries) > Capacity {
		r.entries = r.entries[:Capacity]
	}
	r.mu.Unlock()

	switch t {
	case TypeWarning:
		r.log.Warn(message)
	case TypeError:
		r.log.Error(message)
	default:
		r.log.Info(message, zap.String("type", string(t)))
	}
	return entry
}

func (r *Recorder) Info(message string) Entry    { return r.Record(TypeInfo, message) }
func (r *Recorder) Success(message string) Entry { return r.Record(TypeSuccess, message) }
func (r *Recorder) Warning(message string) Entry { return r.Record(TypeWarning, message) }
func (r *Recorder) Error(message string) Entry   { return r.Record(TypeError, message) }

// Entries returns a copy of the retained entries, newest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
