package responseformat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is an output encoding selected by the client.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
	CSV     Format = "csv"
)

// ErrUnsupportedFormat is returned when data cannot be written in the
// requested format.
var ErrUnsupportedFormat = errors.New("unsupported response format")

// CSVWriter is implemented by payloads that have a tabular form.
type CSVWriter interface {
	WriteCSV(w io.Writer) error
}

// Formatter handles encoding and writing responses in JSON, MessagePack or CSV format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Negotiate picks the format from the format query parameter, falling back
// to the Accept header and finally JSON.
func Negotiate(req *http.Request) Format {
	switch Format(strings.ToLower(req.URL.Query().Get("format"))) {
	case MsgPack:
		return MsgPack
	case CSV:
		return CSV
	case JSON:
		return JSON
	}

	accept := req.Header.Get("Accept")
	switch {
	case strings.Contains(accept, "application/x-msgpack"), strings.Contains(accept, "application/msgpack"):
		return MsgPack
	case strings.Contains(accept, "text/csv"):
		return CSV
	}
	return JSON
}

// WriteResponse writes the response in the format negotiated for req.
// JSON is the default format.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any, headers map[string]string) error {
	// Set any provided headers first
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	// Always set CORS header
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch Negotiate(req) {
	case MsgPack:
		return f.writeMsgPack(w, data)
	case CSV:
		cw, ok := data.(CSVWriter)
		if !ok {
			return ErrUnsupportedFormat
		}
		w.Header().Set("Content-Type", "text/csv")
		return cw.WriteCSV(w)
	}

	return f.writeJSON(w, data)
}

func (f *Formatter) writeJSON(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/x-msgpack")
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
