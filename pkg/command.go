package node

// Command is a 6-DOF motion command: linear x/y/z then angular x/y/z.
type Command [6]float64

// Command vector indices.
const (
	LinearX = iota
	LinearY
	LinearZ
	AngularX
	AngularY
	AngularZ
)

// RandomSource yields uniform values in [0.0, 1.0), *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Synthesize builds a randomized forward nudge: LinearX in [1.0, 2.0),
// AngularZ in [-2.5, 2.5), everything else zero. Each call is independent.
func Synthesize(rng RandomSource) Command {
	forward := 1.0 + rng.Float64()
	turn := 5.0 * (rng.Float64() - 0.5)

	var cmd Command
	cmd[LinearX] = forward
	cmd[AngularZ] = turn
	return cmd
}

// Values returns the command as a slice for encoding.
func (c Command) Values() []float64 {
	return c[:]
}
