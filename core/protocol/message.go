package protocol

import (
	"encoding/json"
	"fmt"
	"math"
)

// MessageType is the "type" field of every cross-window message.
type MessageType string

const (
	// Mirror -> owner
	MsgTogglePlay   MessageType = "TOGGLE_PLAY"
	MsgPrevTrack    MessageType = "PREV_TRACK"
	MsgNextTrack    MessageType = "NEXT_TRACK"
	MsgToggleMute   MessageType = "TOGGLE_MUTE"
	MsgSetVolume    MessageType = "SET_VOLUME"
	MsgSeek         MessageType = "SEEK"
	MsgSelectTrack  MessageType = "SELECT_TRACK"
	MsgPopoutClosed MessageType = "POPOUT_CLOSED"

	// Owner -> mirror
	MsgUpdatePlayer MessageType = "UPDATE_PLAYER"
)

// Intent is a decoded mirror -> owner message. The set of implementations is
// closed; anything the decoder cannot accept becomes Ignored.
type Intent interface {
	Type() MessageType
	intent()
}

type TogglePlay struct{}
type PrevTrack struct{}
type NextTrack struct{}
type ToggleMute struct{}
type PopoutClosed struct{}

// SetVolume carries a volume fraction in [0,1].
type SetVolume struct {
	Volume float64
}

// Seek carries a fractional position along the progress track.
type Seek struct {
	Position float64
}

// SelectTrack addresses a playlist position.
type SelectTrack struct {
	Index int
}

// Ignored is the outcome for unknown types and malformed payloads.
type Ignored struct {
	Kind   MessageType
	Reason string
}

func (TogglePlay) Type() MessageType   { return MsgTogglePlay }
func (PrevTrack) Type() MessageType    { return MsgPrevTrack }
func (NextTrack) Type() MessageType    { return MsgNextTrack }
func (ToggleMute) Type() MessageType   { return MsgToggleMute }
func (PopoutClosed) Type() MessageType { return MsgPopoutClosed }
func (SetVolume) Type() MessageType    { return MsgSetVolume }
func (Seek) Type() MessageType         { return MsgSeek }
func (SelectTrack) Type() MessageType  { return MsgSelectTrack }
func (i Ignored) Type() MessageType    { return i.Kind }

func (TogglePlay) intent()   {}
func (PrevTrack) intent()    {}
func (NextTrack) intent()    {}
func (ToggleMute) intent()   {}
func (PopoutClosed) intent() {}
func (SetVolume) intent()    {}
func (Seek) intent()         {}
func (SelectTrack) intent()  {}
func (Ignored) intent()      {}

// wireIntent is the JSON shape of an intent. Payload fields stay raw so their
// JSON type can be checked.
type wireIntent struct {
	Type     MessageType     `json:"type"`
	Volume   json.RawMessage `json:"volume,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
	Index    json.RawMessage `json:"index,omitempty"`
}

// DecodeIntent validates a raw mirror message. It never fails: invalid input
// decodes to Ignored.
func DecodeIntent(data []byte) Intent {
	var w wireIntent
	if err := json.Unmarshal(data, &w); err != nil {
		return Ignored{Reason: "malformed json"}
	}

	switch w.Type {
	case MsgTogglePlay:
		return TogglePlay{}
	case MsgPrevTrack:
		return PrevTrack{}
	case MsgNextTrack:
		return NextTrack{}
	case MsgToggleMute:
		return ToggleMute{}
	case MsgPopoutClosed:
		return PopoutClosed{}
	case MsgSetVolume:
		v, ok := number(w.Volume)
		if !ok {
			return Ignored{Kind: w.Type, Reason: "volume is not a number"}
		}
		return SetVolume{Volume: v}
	case MsgSeek:
		p, ok := number(w.Position)
		if !ok {
			return Ignored{Kind: w.Type, Reason: "position is not a number"}
		}
		return Seek{Position: p}
	case MsgSelectTrack:
		n, ok := number(w.Index)
		if !ok || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return Ignored{Kind: w.Type, Reason: "index is not an integer"}
		}
		return SelectTrack{Index: int(n)}
	default:
		return Ignored{Kind: w.Type, Reason: "unknown type"}
	}
}

// number accepts only a JSON number literal.
func number(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || raw[0] == '"' || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// EncodeIntent produces the wire form of an intent, as a mirror sends it.
func EncodeIntent(in Intent) ([]byte, error) {
	switch v := in.(type) {
	case SetVolume:
		return json.Marshal(struct {
			Type   MessageType `json:"type"`
			Volume float64     `json:"volume"`
		}{v.Type(), v.Volume})
	case Seek:
		return json.Marshal(struct {
			Type     MessageType `json:"type"`
			Position float64     `json:"position"`
		}{v.Type(), v.Position})
	case SelectTrack:
		return json.Marshal(struct {
			Type  MessageType `json:"type"`
			Index int         `json:"index"`
		}{v.Type(), v.Index})
	case Ignored:
		return nil, fmt.Errorf("cannot encode ignored intent %q", v.Kind)
	default:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
		}{in.Type()})
	}
}

// Update is the owner -> mirror message.
type Update struct {
	Type MessageType `json:"type"`
	Data Snapshot    `json:"data"`
}

// NewUpdate wraps a snapshot in an UPDATE_PLAYER message.
func NewUpdate(s Snapshot) Update {
	return Update{Type: MsgUpdatePlayer, Data: s}
}

// EncodeUpdate marshals an UPDATE_PLAYER message.
func EncodeUpdate(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(NewUpdate(s))
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	return data, nil
}

// DecodeUpdate parses an owner message on the mirror side. ok is false for
// messages that are not UPDATE_PLAYER.
func DecodeUpdate(data []byte) (Snapshot, bool, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode update: %w", err)
	}
	if head.Type != MsgUpdatePlayer {
		return Snapshot{}, false, nil
	}
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode update: %w", err)
	}
	return u.Data, true, nil
}
