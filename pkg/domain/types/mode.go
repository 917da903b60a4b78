package types

// Mode is the refresh mode of a dashboard session
type Mode string

const (
	ModeLive   Mode = "live"
	ModeStatic Mode = "static"
)

// String returns the string representation
func (m Mode) String() string {
	return string(m)
}

// ModeOf converts the live flag of a session into a Mode
func ModeOf(live bool) Mode {
	if live {
		return ModeLive
	}
	return ModeStatic
}

// FrameState describes what a rendered frame contains
type FrameState string

const (
	// FrameStateReady means the frame holds KPIs, charts and tables
	FrameStateReady FrameState = "ready"
	// FrameStateEmpty means no valid records were available in this cycle
	FrameStateEmpty FrameState = "empty"
)

// String returns the string representation
func (s FrameState) String() string {
	return string(s)
}
