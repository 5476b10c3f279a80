package stdl

import "github.com/charmbracelet/log"

// LoggingObserver writes structured step logs through a charmbracelet
// logger. It is the default observer wired by the interactive debugger.
type LoggingObserver struct {
	logger *log.Logger
}

// NewLoggingObserver creates a logging observer over the given logger.
func NewLoggingObserver(logger *log.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnTransition implements Observer.
func (o *LoggingObserver) OnTransition(from, to, event string) {
	o.logger.Info("transition", "from", from, "to", to, "event", event)
}

// OnStateEnter implements Observer.
func (o *LoggingObserver) OnStateEnter(state string) {
	o.logger.Debug("enter", "state", state)
}

// OnStateExit implements ExtendedObserver.
func (o *LoggingObserver) OnStateExit(state string) {
	o.logger.Debug("exit", "state", state)
}

// OnActionEmitted implements ExtendedObserver.
func (o *LoggingObserver) OnActionEmitted(state, action string) {
	o.logger.Info("action", "state", state, "name", action)
}

// OnStepRejected implements ExtendedObserver.
func (o *LoggingObserver) OnStepRejected(state, event, reason string) {
	o.logger.Warn("step rejected", "state", state, "event", event, "reason", reason)
}

// OnError implements ExtendedObserver.
func (o *LoggingObserver) OnError(err error) {
	o.logger.Error("step failed", "error", err)
}
