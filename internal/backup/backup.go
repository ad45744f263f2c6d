// Package backup serializes the whole application state as one exchange
// document and restores it wholesale. The document shape is shared with
// earlier releases, so old export files import cleanly.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/smallbiznis/jielong/internal/catalog/domain"
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
	ledgerdomain "github.com/smallbiznis/jielong/internal/ledger/domain"
)

// Document is the point-in-time export of the three stores.
type Document struct {
	Products  []catalogdomain.Product    `json:"products"`
	Customers []directorydomain.Customer `json:"customers"`
	Orders    []ledgerdomain.Order       `json:"orders"`
	Version   string                     `json:"version"`
	Timestamp int64                      `json:"timestamp"`
}

// ErrInvalidDocument is returned when the import payload is not a JSON
// object; nothing is mutated in that case.
var ErrInvalidDocument = errors.New("invalid_backup_document")

const filenamePrefix = "接龙助手_备份_"

// Filename names an export deterministically by date.
func Filename(t time.Time) string {
	return fmt.Sprintf("%s%s.json", filenamePrefix, t.Format("2006-01-02"))
}

// envelope defers array decoding so one malformed collection degrades to
// empty without failing the whole import.
type envelope struct {
	Products  json.RawMessage `json:"products"`
	Customers json.RawMessage `json:"customers"`
	Orders    json.RawMessage `json:"orders"`
	Version   string          `json:"version"`
	Timestamp int64           `json:"timestamp"`
}

// Decode parses an import payload. The payload must be a JSON object; each
// of the three collections independently defaults to empty when absent,
// null, or malformed.
func Decode(raw []byte) (Document, error) {
	// Unmarshal alone accepts the literal null into a struct; only an
	// actual object counts as a document.
	if !startsObject(raw) {
		return Document{}, ErrInvalidDocument
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Document{}, ErrInvalidDocument
	}

	doc := Document{
		Products:  catalogdomain.Normalize(decodeArray[catalogdomain.Product](env.Products)),
		Customers: directorydomain.Normalize(decodeArray[directorydomain.Customer](env.Customers)),
		Orders:    ledgerdomain.Normalize(decodeArray[ledgerdomain.Order](env.Orders)),
		Version:   env.Version,
		Timestamp: env.Timestamp,
	}
	return doc, nil
}

func startsObject(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return b == '{'
		}
	}
	return false
}

// decodeArray yields nil on absent, null or malformed input; a partially
// decoded array is discarded rather than half-restored.
func decodeArray[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
