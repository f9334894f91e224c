package engine

import jsoniter "github.com/json-iterator/go"

// wireJSON is the codec used for anything that crosses the engine's JSON
// boundary (StringSet marshaling here; snapshots elsewhere in store/session).
// json-iterator/go is a drop-in for encoding/json with a faster marshal
// path, matching the reference server's protojson fast-path marshaling.
var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

func marshalJSON(v interface{}) ([]byte, error) {
	return wireJSON.Marshal(v)
}

func unmarshalJSON(data []byte, v interface{}) error {
	return wireJSON.Unmarshal(data, v)
}

// MarshalRoom serializes a Room snapshot for the store/actor/session
// packages, using the same codec as every other wire boundary in the
// engine.
func MarshalRoom(room *Room) ([]byte, error) {
	return wireJSON.Marshal(room)
}

// UnmarshalRoom restores a Room snapshot previously produced by
// MarshalRoom.
func UnmarshalRoom(data []byte, room *Room) error {
	return wireJSON.Unmarshal(data, room)
}
