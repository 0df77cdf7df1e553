package xw

import (
	"fortio.org/log"
)

// Action is what the host wants after a solution is emitted.
type Action int

const (
	// Continue backtracks past the solution and keeps enumerating.
	Continue Action = iota
	// Restart reshuffles the dictionary and starts over.
	Restart
	// Stop ends the search.
	Stop
)

// Status is how a search ended.
type Status int

const (
	// Exhausted means no more solutions exist.
	Exhausted Status = iota
	// TimedOut means the CPU time budget ran out.
	TimedOut
	// Stopped means the host asked to stop at a solution.
	Stopped
)

func (st Status) String() string {
	switch st {
	case Exhausted:
		return "no more solutions"
	case TimedOut:
		return "max CPU time exceeded"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Controller hosts the search loop: what to do at each solution, what to
// show while grinding, and when to give up.
type Controller struct {
	// OnSolution is called with the grid in its solved state. Nil means
	// stop at the first solution.
	OnSolution func(*Grid) Action
	// OnProgress is called every StepPeriod loop steps (for display).
	OnProgress func(*Grid)
	// StepPeriod is how many loop steps between progress/time checks.
	// Zero or negative disables both.
	StepPeriod int
	// MaxTime is the CPU time budget in seconds. Zero means unlimited.
	MaxTime float64

	// Solutions counts solutions emitted across the controller's lifetime
	// (restarts included).
	Solutions int
}

// Result describes a finished search.
type Result struct {
	Status  Status
	Steps   int64   // words installed
	CPUTime float64 // seconds
}

// FindSolutions runs the fill to completion: each time the grid is fully
// filled the controller decides whether to continue, restart or stop.
// Returns when solutions are exhausted, the time budget is exceeded, or
// the controller says stop. The grid must be Prepared.
func (g *Grid) FindSolutions(ctrl *Controller) Result {
	start := CPUTime()
	count := 0
	result := func(st Status) Result {
		return Result{Status: st, Steps: g.Steps, CPUTime: CPUTime() - start}
	}
	for {
		if g.Solved() {
			ctrl.Solutions++
			action := Stop
			if ctrl.OnSolution != nil {
				action = ctrl.OnSolution(g)
			}
			switch action {
			case Continue:
				if !g.backtrack() {
					return result(Exhausted)
				}
			case Restart:
				g.ctx.Restart(g)
			case Stop:
				return result(Stopped)
			}
			continue
		}
		if !g.pushNextSlot() && !g.backtrack() {
			return result(Exhausted)
		}
		if ctrl.StepPeriod <= 0 {
			continue
		}
		count++
		if count < ctrl.StepPeriod {
			continue
		}
		count = 0
		if ctrl.MaxTime > 0 && CPUTime()-start > ctrl.MaxTime {
			log.Infof("CPU time budget %.1fs exceeded after %d steps", ctrl.MaxTime, g.Steps)
			return result(TimedOut)
		}
		if ctrl.OnProgress != nil {
			ctrl.OnProgress(g)
		}
	}
}
