// Package serve exposes a string-keyed bimap over WebSocket.
//
// A client sends {"p":"1"} and receives a hello reply, then sends requests and receives one reply per request.
// After a "watch" request the client also receives every later change to the map.
package serve

import (
	"github.com/samthor/bimultimap/bimap"
)

const (
	OpInsert      = "insert"
	OpRemove      = "remove"
	OpRemoveLeft  = "removeLeft"
	OpRemoveRight = "removeRight"
	OpSetLeft     = "setLeft"
	OpSetRight    = "setRight"
	OpGetLeft     = "getLeft"
	OpGetRight    = "getRight"
	OpHas         = "has"
	OpLen         = "len"
	OpDump        = "dump"
	OpWatch       = "watch"
)

type helloMessage struct {
	Protocol string `json:"p"`
}

type helloResponseMessage struct {
	Ok      bool         `json:"ok"`
	Session int          `json:"s"`
	Limit   *LimitConfig `json:"l,omitzero"`
}

// Request is a single operation sent by a client.
type Request struct {
	ID     int      `json:"id"`
	Op     string   `json:"op"`
	Left   string   `json:"l,omitempty"`
	Right  string   `json:"r,omitempty"`
	Lefts  []string `json:"ls,omitempty"`
	Rights []string `json:"rs,omitempty"`
}

// Response answers the Request with the same ID.
// Values are sorted.
type Response struct {
	ID     int                          `json:"id"`
	Ok     bool                         `json:"ok"`
	Values []string                     `json:"v,omitempty"`
	Pairs  []bimap.Pair[string, string] `json:"pairs,omitempty"`
	Count  int                          `json:"n"`
	Err    string                       `json:"err,omitempty"`
}

// Change describes a single pair being added or removed.
type Change struct {
	Op    string `json:"op"`
	Left  string `json:"l"`
	Right string `json:"r"`
}

// ChangeMessage is sent to watching clients.
type ChangeMessage struct {
	Change Change `json:"c"`
}
