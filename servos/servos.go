// Package servos is the actuation layer: a pool of dynamixel AX servos, one
// per leg, driven with the angles solved each tick. The wire protocol lives
// entirely in the dynamixel library.
package servos

import (
	"math"

	"github.com/adammck/dynamixel/network"
	v1 "github.com/adammck/dynamixel/protocol/v1"
	"github.com/adammck/dynamixel/servo"
	"github.com/adammck/dynamixel/servo/ax"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Linc-hub/StewartSim/kinematics"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "servos",
})

// Pool drives one servo per leg, in leg order.
type Pool struct {
	network *network.Network
	servos  []*servo.Servo
}

// NewPool registers the servos with the given ids, applying sensible
// defaults to each.
func NewPool(n *network.Network, ids []int) (*Pool, error) {
	p := &Pool{network: n}

	for _, id := range ids {
		s, err := newServo(n, id)
		if err != nil {
			return nil, err
		}
		p.servos = append(p.servos, s)
	}

	return p, nil
}

func newServo(n *network.Network, id int) (*servo.Servo, error) {
	s, err := ax.New(n, id)
	if err != nil {
		return nil, err
	}

	// Don't bother sending ACKs for writes. We must do this first, to ensure
	// that the servo is in the expected state before sending other commands.
	if err := s.SetReturnLevel(1); err != nil {
		return nil, errors.Wrapf(err, "servo #%d: set return level", id)
	}

	if err := s.Ping(); err != nil {
		return nil, errors.Wrapf(err, "servo #%d: ping", id)
	}

	if err := s.SetReturnDelayTime(0); err != nil {
		return nil, errors.Wrapf(err, "servo #%d: set return delay", id)
	}

	if err := s.SetTorqueEnable(true); err != nil {
		return nil, errors.Wrapf(err, "servo #%d: enable torque", id)
	}

	if err := s.SetMovingSpeed(1023); err != nil {
		return nil, errors.Wrapf(err, "servo #%d: set moving speed", id)
	}

	// Buffer all subsequent instructions; Apply issues the ACTION command at
	// the end of each tick so all legs start moving at once.
	s.SetBuffered(true)

	return s, nil
}

// Apply sends the solved angles to the servos in one synchronized burst.
// Infeasible legs are skipped and keep their previous goal.
func (p *Pool) Apply(angles []kinematics.Angle) error {
	var firstErr error

	p.sync(func() {
		for i, a := range angles {
			if i >= len(p.servos) {
				return
			}

			if !a.OK {
				log.Debugf("leg %d infeasible, holding", i)
				continue
			}

			if err := p.servos[i].MoveTo(deg(a.Radians)); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, "leg %d", i)
			}
		}
	})

	return firstErr
}

// sync runs the given function while the network is in buffered mode, then
// initiates any movements at once by sending ACTION.
func (p *Pool) sync(f func()) {
	for _, s := range p.servos {
		s.SetBuffered(true)
	}
	f()
	for _, s := range p.servos {
		s.SetBuffered(false)
	}
	v1.New(p.network).Action()
}

func deg(rads float64) float64 {
	return rads / (math.Pi / 180)
}

// Shutdown powers off all servos in the pool. This should be called before
// terminating the program, to ensure that servos don't stay powered up
// indefinitely.
func (p *Pool) Shutdown() {
	for _, s := range p.servos {
		s.SetTorqueEnable(false)
		s.SetLED(false)
	}
}
