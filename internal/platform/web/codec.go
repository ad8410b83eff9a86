package web

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes gateway messages for one connection.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// FrameType is the WebSocket message type frames are sent as.
	FrameType() int
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) FrameType() int                     { return websocket.TextMessage }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                       { return "msgpack" }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (msgpackCodec) FrameType() int                     { return websocket.BinaryMessage }

// codecFor picks a codec by query value. Unknown names fall back to JSON.
func codecFor(name string) Codec {
	if name == "msgpack" {
		return msgpackCodec{}
	}
	return jsonCodec{}
}

// decodeClient reads a client message. Clients may send JSON text frames
// regardless of the frame codec.
func decodeClient(c Codec, messageType int, data []byte, v any) error {
	if messageType == websocket.TextMessage {
		return json.Unmarshal(data, v)
	}
	return c.Unmarshal(data, v)
}
