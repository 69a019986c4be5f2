// Package integrators provides fixed-step numerical integrators for
// the forward rollout of joint multi-player dynamics.
package integrators

import (
	"fmt"

	"github.com/mkrv/lqnash/internal/dynamics"
)

// New returns the named integrator. An empty name defaults to RK4.
func New(name string) (dynamics.Integrator, error) {
	switch name {
	case "rk4", "":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}
