package formatter

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

type MsgPackFormatter struct{}

func NewMsgPackFormatter() *MsgPackFormatter {
	return &MsgPackFormatter{}
}

// Format writes the trail model as MessagePack, keyed by the JSON field names.
func (f *MsgPackFormatter) Format(w io.Writer, r Report) error {
	return EncodeMsgPack(w, NewTrailDocument(r))
}

// EncodeMsgPack encodes v using json struct tags as MessagePack keys.
func EncodeMsgPack(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode trail as msgpack: %w", err)
	}
	return nil
}
