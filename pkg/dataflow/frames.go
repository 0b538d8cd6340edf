package dataflow

import (
	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/dogecoinfoundation/controlnode/pkg/arrowipc"
)

// ClosedTag is the frame-0 tag the runtime sends when the graph closes.
const ClosedTag = "CLOSED"

// DecodeFrames turns one multipart message [kind, id, data] into an Event.
// A nil Event means the graph is closed. Frames that make no sense are
// delivered as EventOther so the loop ignores them.
func DecodeFrames(frames [][]byte) *node.Event {
	if len(frames) == 0 {
		return &node.Event{Kind: node.EventOther}
	}
	tag := string(frames[0])
	if tag == ClosedTag {
		return nil
	}
	e := &node.Event{Kind: node.ParseEventKind(tag)}
	if len(frames) > 1 {
		e.ID = string(frames[1])
	}
	var data []byte
	if len(frames) > 2 {
		data = frames[2]
	}
	switch e.Kind {
	case node.EventInput:
		if e.ID == "" {
			return &node.Event{Kind: node.EventOther}
		}
		if node.ParseInputID(e.ID) == node.InputTurtlePose {
			e.Value = arrowipc.PosePayload(data)
		} else {
			e.Value = data
		}
	case node.EventError:
		e.Value = string(data)
	}
	return e
}

// EncodeFrames is the inverse of DecodeFrames, used by test drivers.
func EncodeFrames(e *node.Event) [][]byte {
	if e == nil {
		return [][]byte{[]byte(ClosedTag)}
	}
	frames := [][]byte{[]byte(e.Kind.String()), []byte(e.ID)}
	switch v := e.Value.(type) {
	case arrowipc.PosePayload:
		frames = append(frames, []byte(v))
	case []byte:
		frames = append(frames, v)
	case string:
		frames = append(frames, []byte(v))
	}
	return frames
}

// OutputTopic is the PUB topic a node output is published on.
func OutputTopic(nodeName string, output node.OutputID) string {
	return nodeName + "/" + string(output)
}
