package node

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Pose is the turtle position report delivered on the turtle_pose input.
type Pose struct {
	X               float64
	Y               float64
	Theta           float64
	LinearVelocity  float64
	AngularVelocity float64
}

// PoseFields lists the record field names in wire order.
var PoseFields = []string{"x", "y", "theta", "linear_velocity", "angular_velocity"}

// String renders one "name: value" line per field.
func (p Pose) String() string {
	values := []float64{p.X, p.Y, p.Theta, p.LinearVelocity, p.AngularVelocity}
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = fmt.Sprintf("%s: %g", PoseFields[i], v)
	}
	return strings.Join(lines, "\n")
}

// Renderer is implemented by payloads that must be decoded before they
// can be shown, and so may fail.
type Renderer interface {
	Render() (string, error)
}

var lineFolder = strings.NewReplacer("\r", "", "\n", " ")

// FormatPoseLine renders a pose payload as a single log line.
func FormatPoseLine(value any) (string, error) {
	text, err := renderValue(value)
	if err != nil {
		return "", err
	}
	return "Pose: " + lineFolder.Replace(text), nil
}

func renderValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", NewErr(MalformedPayload, "pose payload is empty")
	case Renderer:
		text, err := v.Render()
		if err != nil {
			return "", WrapErr(MalformedPayload, err, "cannot render pose payload")
		}
		return text, nil
	case fmt.Stringer:
		return v.String(), nil
	case string:
		return v, nil
	case []byte:
		if !utf8.Valid(v) {
			return "", NewErr(MalformedPayload, "pose payload is not valid UTF-8 text")
		}
		return string(v), nil
	}
	return fmt.Sprintf("%v", value), nil
}
