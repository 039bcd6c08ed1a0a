package persistence

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/observability"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// Codec converts records to and from their JSON text form. Decoding never fails:
// malformed input resolves to the caller's fallback and the swallowed error is logged.
type Codec struct {
	log *logging.Logger
}

// NewCodec creates a codec. A nil logger discards diagnostics.
func NewCodec(log *logging.Logger) *Codec {
	return &Codec{log: logging.OrNop(log)}
}

// Encode returns the JSON text of the normalized record.
func (c *Codec) Encode(record types.PortfolioRecord) string {
	return mustMarshal(types.Normalize(record), false)
}

// EncodePretty returns indented JSON, the format used for export files.
func (c *Codec) EncodePretty(record types.PortfolioRecord) string {
	return mustMarshal(types.Normalize(record), true)
}

// Decode parses raw into a record. Empty input, JSON null, or any parse error
// returns fallback unchanged. Parsed records are normalized.
func (c *Codec) Decode(raw string, fallback types.PortfolioRecord) types.PortfolioRecord {
	record, err := c.TryDecode(raw)
	if err != nil {
		if !errors.Is(err, errEmpty) {
			c.fallback("record", err)
		}
		return fallback
	}
	return record
}

// TryDecode is Decode without the fallback: it reports why raw could not be used.
func (c *Codec) TryDecode(raw string) (types.PortfolioRecord, error) {
	var record types.PortfolioRecord
	if isEmpty(raw) {
		return record, errEmpty
	}
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return record, err
	}
	return types.Normalize(record), nil
}

// EncodeBackups returns the JSON array form of the backup list.
func (c *Codec) EncodeBackups(snapshots []string) string {
	if snapshots == nil {
		snapshots = []string{}
	}
	return mustMarshal(snapshots, false)
}

// DecodeBackups parses a backup list, falling back to an empty list.
func (c *Codec) DecodeBackups(raw string) []string {
	if isEmpty(raw) {
		return []string{}
	}
	var snapshots []string
	if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
		c.fallback("backups", err)
		return []string{}
	}
	if snapshots == nil {
		return []string{}
	}
	return snapshots
}

func (c *Codec) fallback(target string, err error) {
	observability.CodecFallbacksTotal.WithLabelValues(target).Inc()
	c.log.Warn("Discarding unparseable stored data", "target", target, "error", err)
}

var errEmpty = errors.New("empty input")

func isEmpty(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "null"
}

// mustMarshal encodes values that contain only strings, slices and structs, which
// encoding/json cannot fail on.
func mustMarshal(v any, indent bool) string {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		panic("persistence: marshal: " + err.Error())
	}
	return string(data)
}
