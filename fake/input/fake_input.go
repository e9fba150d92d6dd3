package input

import (
	realinput "github.com/Linc-hub/StewartSim/input"
)

// Static always reports the same sample. Useful as a stand-in when no
// controller is attached.
type Static struct {
	S realinput.Sample
}

func (s Static) Sample() realinput.Sample {
	return s.S
}

// Script replays a fixed sequence of samples, one per call, holding the
// last one forever. Tests drive teleoperation deterministically with it.
type Script struct {
	Samples []realinput.Sample
	i       int
}

func (s *Script) Sample() realinput.Sample {
	if len(s.Samples) == 0 {
		return realinput.Sample{}
	}

	r := s.Samples[s.i]
	if s.i < len(s.Samples)-1 {
		s.i++
	}
	return r
}
