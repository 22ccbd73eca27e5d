package architect

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContentBlock is one piece of an envelope's content. Kind is always "text".
type ContentBlock struct {
	Kind string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the transport-neutral reply to one operation call. Error
// envelopes carry a message, never an operation output.
type Envelope struct {
	IsError bool           `json:"isError,omitempty"`
	Content []ContentBlock `json:"content"`

	outcome outcome
	err     error
}

// Err returns the failure behind an error envelope, or nil.
func (e Envelope) Err() error {
	return e.err
}

// Text returns the concatenated text of every block.
func (e Envelope) Text() string {
	var sb strings.Builder
	for _, b := range e.Content {
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// outcome classifies an envelope for metrics and logs.
type outcome string

const (
	outcomeOK         outcome = "ok"
	outcomeValidation outcome = "validation"
	outcomeModel      outcome = "model"
	outcomeUpstream   outcome = "upstream"
	outcomeProtocol   outcome = "protocol"
	outcomeInternal   outcome = "internal"
)

func textEnvelope(text string) Envelope {
	return Envelope{Content: []ContentBlock{{Kind: "text", Text: text}}, outcome: outcomeOK}
}

func errorEnvelope(kind outcome, msg string, err error) Envelope {
	return Envelope{IsError: true, Content: []ContentBlock{{Kind: "text", Text: msg}}, outcome: kind, err: err}
}

// sentence renders err as user-facing text with a leading capital.
func sentence(err error) string {
	msg := err.Error()
	r, n := utf8.DecodeRuneInString(msg)
	if n == 0 {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[n:]
}
