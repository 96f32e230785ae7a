package params

import "fmt"

// Field identifies a scalar of a Set.
type Field int

const (
	TimeSpeed Field = iota
	RotationSpeed1
	RotationSpeed2
	WaveSpeed
	WaveAmplitude
	ColorIntensity
	RayStepSize
	MaxDistance
	Complexity
	DistanceOffset
	RayOriginDistance
	Iterations

	numFields
)

var fieldInfo = [numFields]struct {
	name     string
	label    string
	min, max float64
}{
	TimeSpeed:         {"timeSpeed", "Time Speed", 0, 3},
	RotationSpeed1:    {"rotationSpeed1", "Rotation Speed 1", 0, 2},
	RotationSpeed2:    {"rotationSpeed2", "Rotation Speed 2", 0, 2},
	WaveSpeed:         {"waveSpeed", "Wave Speed", 0, 2},
	WaveAmplitude:     {"waveAmplitude", "Wave Amplitude", 0, 2},
	ColorIntensity:    {"colorIntensity", "Color Intensity", 0, 2},
	RayStepSize:       {"rayStepSize", "Ray Step Size", 0, 1},
	MaxDistance:       {"maxDistance", "Max Distance", 0.1, 5},
	Complexity:        {"complexity", "Complexity", 1, 20},
	DistanceOffset:    {"distanceOffset", "Distance Offset", 0, 5},
	RayOriginDistance: {"rayOriginDistance", "Ray Origin Distance", 1, 15},
	Iterations:        {"iterations", "Iterations", 5, 20},
}

// Fields returns every scalar field in declaration order.
func Fields() []Field {
	fs := make([]Field, numFields)
	for i := range fs {
		fs[i] = Field(i)
	}
	return fs
}

func (f Field) Valid() bool { return f >= 0 && f < numFields }

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldInfo[f].name
}

// ColorID identifies one of the two color triples.
type ColorID int

const (
	BaseColor ColorID = iota
	AccentColor

	numColors
)

var colorInfo = [numColors]struct {
	name     string
	label    string
	min, max float64
}{
	BaseColor:   {"baseColor", "Base Color", 0, 1},
	AccentColor: {"accentColor", "Accent Color", 0, 10},
}

// Colors returns both color ids.
func Colors() []ColorID { return []ColorID{BaseColor, AccentColor} }

func (c ColorID) Valid() bool { return c >= 0 && c < numColors }

func (c ColorID) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ColorID(%d)", int(c))
	}
	return colorInfo[c].name
}

// Label is the human readable name of the color.
func (c ColorID) Label() string {
	if !c.Valid() {
		return c.String()
	}
	return colorInfo[c].label
}

// Channel is one component of a Color.
type Channel int

const (
	Red Channel = iota
	Green
	Blue

	numChannels
)

// Channels returns R, G and B in order.
func Channels() []Channel { return []Channel{Red, Green, Blue} }

func (ch Channel) Valid() bool { return ch >= 0 && ch < numChannels }

func (ch Channel) String() string {
	switch ch {
	case Red:
		return "r"
	case Green:
		return "g"
	case Blue:
		return "b"
	}
	return fmt.Sprintf("Channel(%d)", int(ch))
}

type targetKind uint8

const (
	invalidTarget targetKind = iota
	scalarTarget
	channelTarget
)

// Target addresses a single editable value: a scalar field or one channel of a
// color. The zero Target is invalid.
type Target struct {
	kind    targetKind
	field   Field
	color   ColorID
	channel Channel
}

// Scalar targets a scalar field.
func Scalar(f Field) Target {
	return Target{kind: scalarTarget, field: f}
}

// ColorChannel targets one channel of a color.
func ColorChannel(c ColorID, ch Channel) Target {
	return Target{kind: channelTarget, color: c, channel: ch}
}

// Valid reports whether t addresses an existing value.
func (t Target) Valid() bool {
	switch t.kind {
	case scalarTarget:
		return t.field.Valid()
	case channelTarget:
		return t.color.Valid() && t.channel.Valid()
	}
	return false
}

// IsChannel reports whether t addresses a color channel.
func (t Target) IsChannel() bool { return t.kind == channelTarget }

// Field returns the scalar field of a scalar target.
func (t Target) Field() (Field, bool) { return t.field, t.kind == scalarTarget }

// Channel returns the color and channel of a channel target.
func (t Target) Channel() (ColorID, Channel, bool) {
	return t.color, t.channel, t.kind == channelTarget
}

// Range returns the editor bounds of the addressed value.
func (t Target) Range() (lo, hi float64) {
	if !t.Valid() {
		return 0, 0
	}
	if t.kind == channelTarget {
		return colorInfo[t.color].min, colorInfo[t.color].max
	}
	return fieldInfo[t.field].min, fieldInfo[t.field].max
}

// Label is the human readable name of the addressed value.
func (t Target) Label() string {
	if !t.Valid() {
		return t.String()
	}
	if t.kind == channelTarget {
		return fmt.Sprintf("%s %s", colorInfo[t.color].label, channelLabel[t.channel])
	}
	return fieldInfo[t.field].label
}

var channelLabel = [numChannels]string{Red: "R", Green: "G", Blue: "B"}

func (t Target) String() string {
	switch t.kind {
	case scalarTarget:
		return t.field.String()
	case channelTarget:
		return t.color.String() + "." + t.channel.String()
	}
	return "invalid"
}
