// Package arrowipc encodes node messages as Apache Arrow IPC streams,
// the typed-array format the dataflow runtime carries between nodes.
package arrowipc

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	node "github.com/dogecoinfoundation/controlnode/pkg"
)

// EncodeFloat64s writes values as a single float64 column named field.
func EncodeFloat64s(field string, values []float64) ([]byte, error) {
	mem := memory.NewGoAllocator()
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.AppendValues(values, nil)
	col := b.NewFloat64Array()
	defer col.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: field, Type: arrow.PrimitiveTypes.Float64}}, nil)
	return writeRecord(mem, schema, []arrow.Array{col}, int64(len(values)))
}

// DecodeFloat64s reads the first float64 column of the first record.
func DecodeFloat64s(data []byte) ([]float64, error) {
	var values []float64
	err := readRecord(data, func(rec arrow.Record) error {
		if rec.NumCols() == 0 {
			return fmt.Errorf("arrowipc: record has no columns")
		}
		col, ok := rec.Column(0).(*array.Float64)
		if !ok {
			return fmt.Errorf("arrowipc: expected float64 column, got %s", rec.Column(0).DataType())
		}
		if col.NullN() > 0 {
			return fmt.Errorf("arrowipc: column %q contains nulls", rec.ColumnName(0))
		}
		values = append([]float64(nil), col.Float64Values()...)
		return nil
	})
	return values, err
}

// EncodeCommand encodes a Command as the named output's payload.
func EncodeCommand(output node.OutputID, cmd node.Command) ([]byte, error) {
	return EncodeFloat64s(string(output), cmd.Values())
}

// DecodeCommand is the inverse of EncodeCommand.
func DecodeCommand(data []byte) (node.Command, error) {
	var cmd node.Command
	values, err := DecodeFloat64s(data)
	if err != nil {
		return cmd, err
	}
	if len(values) != len(cmd) {
		return cmd, fmt.Errorf("arrowipc: command needs %d values, got %d", len(cmd), len(values))
	}
	copy(cmd[:], values)
	return cmd, nil
}

// EncodePose writes a Pose as one row with a float64 column per field.
func EncodePose(p node.Pose) ([]byte, error) {
	mem := memory.NewGoAllocator()
	values := []float64{p.X, p.Y, p.Theta, p.LinearVelocity, p.AngularVelocity}
	fields := make([]arrow.Field, len(values))
	cols := make([]arrow.Array, len(values))
	for i, v := range values {
		fields[i] = arrow.Field{Name: node.PoseFields[i], Type: arrow.PrimitiveTypes.Float64}
		b := array.NewFloat64Builder(mem)
		b.Append(v)
		cols[i] = b.NewFloat64Array()
		b.Release()
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return writeRecord(mem, arrow.NewSchema(fields, nil), cols, 1)
}

// DecodePose reads a Pose record; every field must be present.
func DecodePose(data []byte) (node.Pose, error) {
	var p node.Pose
	err := readRecord(data, func(rec arrow.Record) error {
		if rec.NumRows() < 1 {
			return fmt.Errorf("arrowipc: pose record is empty")
		}
		targets := []*float64{&p.X, &p.Y, &p.Theta, &p.LinearVelocity, &p.AngularVelocity}
		for i, name := range node.PoseFields {
			idx := rec.Schema().FieldIndices(name)
			if len(idx) == 0 {
				return fmt.Errorf("arrowipc: pose field %q missing", name)
			}
			col, ok := rec.Column(idx[0]).(*array.Float64)
			if !ok {
				return fmt.Errorf("arrowipc: pose field %q is %s, not float64", name, rec.Column(idx[0]).DataType())
			}
			if col.IsNull(0) {
				return fmt.Errorf("arrowipc: pose field %q is null", name)
			}
			*targets[i] = col.Value(0)
		}
		return nil
	})
	return p, err
}

// PosePayload is an undecoded turtle_pose value. Decoding is deferred to
// Render so a bad payload fails where the pose is used.
type PosePayload []byte

func (p PosePayload) Render() (string, error) {
	pose, err := DecodePose(p)
	if err != nil {
		return "", err
	}
	return pose.String(), nil
}

func writeRecord(mem memory.Allocator, schema *arrow.Schema, cols []arrow.Array, rows int64) ([]byte, error) {
	rec := array.NewRecord(schema, cols, rows)
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := w.Write(rec); err != nil {
		w.Close()
		return nil, fmt.Errorf("arrowipc: write record: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("arrowipc: close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func readRecord(data []byte, fn func(arrow.Record) error) error {
	if len(data) == 0 {
		return fmt.Errorf("arrowipc: empty payload")
	}
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return fmt.Errorf("arrowipc: open stream: %w", err)
	}
	defer r.Release()
	if !r.Next() {
		if err := r.Err(); err != nil {
			return fmt.Errorf("arrowipc: read record: %w", err)
		}
		return fmt.Errorf("arrowipc: stream has no records")
	}
	return fn(r.Record())
}
