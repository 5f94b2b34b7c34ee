// Package encoding names the wire formats values are serialized with.
package encoding

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes and deserializes values for one wire format.
type Codec interface {
	Name() string
	ContentType() string
	// Binary reports whether encoded output is opaque bytes rather than text.
	Binary() bool
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	MsgPack Codec = msgpackCodec{}
	JSON    Codec = jsonCodec{}
)

// ByName resolves "msgpack" or "json", case-insensitively. Empty means msgpack.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", MsgPack.Name():
		return MsgPack, nil
	case JSON.Name():
		return JSON, nil
	default:
		return nil, errors.Errorf("unknown codec %q", name)
	}
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string        { return "msgpack" }
func (msgpackCodec) ContentType() string { return "application/msgpack" }
func (msgpackCodec) Binary() bool        { return true }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	return data, errors.Wrap(err, "msgpack marshal")
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return errors.Wrap(msgpack.Unmarshal(data, v), "msgpack unmarshal")
}

type jsonCodec struct{}

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) ContentType() string { return "application/json" }
func (jsonCodec) Binary() bool        { return false }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	return data, errors.Wrap(err, "json marshal")
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return errors.Wrap(json.Unmarshal(data, v), "json unmarshal")
}
