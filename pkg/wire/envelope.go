package wire

import (
	"encoding/json"
	"fmt"
)

// Heartbeat is published by the commander on a fixed interval. Done becomes
// true once the assignment registry's termination predicate holds; every
// worker that observes it begins shutting down.
type Heartbeat struct {
	Time float64 `json:"heartbeat"`
	Done bool    `json:"done"`
}

// HeartbeatResp is sent by a worker in reply to a Heartbeat, self-reporting
// its externally discovered IP.
type HeartbeatResp struct {
	IP string `json:"heartbeat_resp"`
}

// TestSpec is pushed to exactly one worker and describes one assignment's
// work: the key, the wall-clock timeout in seconds, and the ordered shell
// commands to run against the assignment's files.
type TestSpec struct {
	Key            string   `json:"key"`
	TimeoutSeconds uint32   `json:"timeout"`
	Commands       []string `json:"commands"`
}

// FileReq asks the commander's file responder for an assignment's files.
// The literal key "common" requests the shared grader directory instead of
// a student submission directory.
type FileReq struct {
	Key string `json:"files"`
}

// FilePayload is one (relative path, base64 file content) pair.
type FilePayload struct {
	Path   string
	Base64 string
}

// Files is an ordered list of file payloads. On the wire it is a bare JSON
// array of single-key objects ({"path": "b64..."}), not a wrapped object, to
// match spec §4.A's wire table exactly.
type Files struct {
	Files []FilePayload
}

// TestCompletion reports one worker's result for one assignment: the key and
// a base64-encoded transcript of the command run.
type TestCompletion struct {
	Key           string `json:"netid"`
	ResultsBase64 string `json:"results"`
}

// heartbeatWire/testSpecWire/etc. are not needed: the struct tags above
// already produce the exact wire shape for every variant except Files, which
// needs custom (de)serialization because it is a bare array rather than a
// keyed object.

// MarshalJSON encodes Files as a bare JSON array of single-key objects, one
// per file payload, e.g. [{"a.txt":"b64..."},{"b.txt":"b64..."}].
func (f Files) MarshalJSON() ([]byte, error) {
	items := make([]map[string]string, len(f.Files))
	for i, fp := range f.Files {
		items[i] = map[string]string{fp.Path: fp.Base64}
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes a bare JSON array of single-key objects into Files.
func (f *Files) UnmarshalJSON(data []byte) error {
	var items []map[string]string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("%w: files payload is not a JSON array: %v", ErrProtocol, err)
	}
	out := make([]FilePayload, 0, len(items))
	for _, item := range items {
		for path, b64 := range item {
			out = append(out, FilePayload{Path: path, Base64: b64})
		}
	}
	f.Files = out
	return nil
}

// Encode marshals any recognized variant to its wire JSON form.
func Encode(v any) ([]byte, error) {
	switch msg := v.(type) {
	case Heartbeat, HeartbeatResp, TestSpec, FileReq, Files, TestCompletion:
		data, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %T: %v", ErrProtocol, msg, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: encode: unrecognized variant %T", ErrProtocol, v)
	}
}

// Decode sniffs a raw JSON payload and returns the concrete variant it
// decodes into: one of Heartbeat, HeartbeatResp, TestSpec, FileReq, Files, or
// TestCompletion. It returns ErrProtocol if the payload matches none of the
// six recognized shapes.
func Decode(data []byte) (any, error) {
	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		var files Files
		if err := json.Unmarshal(data, &files); err != nil {
			return nil, fmt.Errorf("%w: decode files: %v", ErrProtocol, err)
		}
		return files, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object or array: %v", ErrProtocol, err)
	}

	switch {
	case has(probe, "heartbeat", "done"):
		var hb Heartbeat
		if err := json.Unmarshal(data, &hb); err != nil {
			return nil, fmt.Errorf("%w: decode heartbeat: %v", ErrProtocol, err)
		}
		return hb, nil

	case has(probe, "heartbeat_resp"):
		var hr HeartbeatResp
		if err := json.Unmarshal(data, &hr); err != nil {
			return nil, fmt.Errorf("%w: decode heartbeat_resp: %v", ErrProtocol, err)
		}
		return hr, nil

	case has(probe, "key", "timeout", "commands"):
		var ts TestSpec
		if err := json.Unmarshal(data, &ts); err != nil {
			return nil, fmt.Errorf("%w: decode test spec: %v", ErrProtocol, err)
		}
		return ts, nil

	case has(probe, "files"):
		var fr FileReq
		if err := json.Unmarshal(data, &fr); err != nil {
			return nil, fmt.Errorf("%w: decode file request: %v", ErrProtocol, err)
		}
		return fr, nil

	case has(probe, "netid", "results"):
		var tc TestCompletion
		if err := json.Unmarshal(data, &tc); err != nil {
			return nil, fmt.Errorf("%w: decode test completion: %v", ErrProtocol, err)
		}
		return tc, nil

	default:
		return nil, fmt.Errorf("%w: payload matches no known variant", ErrProtocol)
	}
}

func has(m map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}

// DecodeHeartbeat decodes data, requiring it to be a Heartbeat. Used by
// channels (the subscriber side of the heartbeat fabric) that cannot carry
// any other variant.
func DecodeHeartbeat(data []byte) (Heartbeat, error) {
	v, err := Decode(data)
	if err != nil {
		return Heartbeat{}, err
	}
	hb, ok := v.(Heartbeat)
	if !ok {
		return Heartbeat{}, fmt.Errorf("%w: invalid context: expected heartbeat, got %T", ErrProtocol, v)
	}
	return hb, nil
}

// DecodeHeartbeatResp decodes data, requiring it to be a HeartbeatResp.
func DecodeHeartbeatResp(data []byte) (HeartbeatResp, error) {
	v, err := Decode(data)
	if err != nil {
		return HeartbeatResp{}, err
	}
	hr, ok := v.(HeartbeatResp)
	if !ok {
		return HeartbeatResp{}, fmt.Errorf("%w: invalid context: expected heartbeat_resp, got %T", ErrProtocol, v)
	}
	return hr, nil
}

// DecodeTestSpec decodes data, requiring it to be a TestSpec.
func DecodeTestSpec(data []byte) (TestSpec, error) {
	v, err := Decode(data)
	if err != nil {
		return TestSpec{}, err
	}
	ts, ok := v.(TestSpec)
	if !ok {
		return TestSpec{}, fmt.Errorf("%w: invalid context: expected test spec, got %T", ErrProtocol, v)
	}
	return ts, nil
}

// DecodeFileReq decodes data, requiring it to be a FileReq.
func DecodeFileReq(data []byte) (FileReq, error) {
	v, err := Decode(data)
	if err != nil {
		return FileReq{}, err
	}
	fr, ok := v.(FileReq)
	if !ok {
		return FileReq{}, fmt.Errorf("%w: invalid context: expected file request, got %T", ErrProtocol, v)
	}
	return fr, nil
}

// DecodeFiles decodes data, requiring it to be a Files payload.
func DecodeFiles(data []byte) (Files, error) {
	v, err := Decode(data)
	if err != nil {
		return Files{}, err
	}
	files, ok := v.(Files)
	if !ok {
		return Files{}, fmt.Errorf("%w: invalid context: expected files, got %T", ErrProtocol, v)
	}
	return files, nil
}

// DecodeTestCompletion decodes data, requiring it to be a TestCompletion.
func DecodeTestCompletion(data []byte) (TestCompletion, error) {
	v, err := Decode(data)
	if err != nil {
		return TestCompletion{}, err
	}
	tc, ok := v.(TestCompletion)
	if !ok {
		return TestCompletion{}, fmt.Errorf("%w: invalid context: expected test completion, got %T", ErrProtocol, v)
	}
	return tc, nil
}

// CommonKey is the sentinel FileReq.Key value that requests the shared
// grader directory rather than a per-student assignment directory.
const CommonKey = "common"
