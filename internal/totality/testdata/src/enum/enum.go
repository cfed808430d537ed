package enum

type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	modeInternal
)

func Internal() Mode { return modeInternal }
