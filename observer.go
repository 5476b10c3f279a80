package stdl

import "fmt"

// Observer watches the lifecycle of an execution session.
type Observer interface {
	// OnTransition is called when a step moves the session between states
	OnTransition(from string, to string, event string)

	// OnStateEnter is called for every state entered during a step
	OnStateEnter(state string)
}

// ExtendedObserver provides additional optional observation methods.
type ExtendedObserver interface {
	Observer

	// OnStateExit is called for every state exited during a step
	OnStateExit(state string)

	// OnActionEmitted is called for every action name emitted by a step
	OnActionEmitted(state string, action string)

	// OnStepRejected is called when a step produces no state change
	OnStepRejected(state string, event string, reason string)

	// OnError is called when a step fails
	OnError(err error)
}

// BaseObserver provides a default implementation with no-op methods.
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(from string, to string, event string) {}

// OnStateEnter implements the required Observer method
func (o *BaseObserver) OnStateEnter(state string) {}

// OnStateExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnStateExit(state string) {}

// OnActionEmitted implements the optional ExtendedObserver method
func (o *BaseObserver) OnActionEmitted(state string, action string) {}

// OnStepRejected implements the optional ExtendedObserver method
func (o *BaseObserver) OnStepRejected(state string, event string, reason string) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// ObserverManager manages a collection of observers. Notification is
// panic-isolated: a misbehaving observer never aborts a step.
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{observers: make([]Observer, 0)}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

func (om *ObserverManager) each(notify func(Observer)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { _ = recover() }()
							extObs.OnError(fmt.Errorf("observer panic: %v", r))
						}()
					}
				}
			}()
			notify(observer)
		}()
	}
}

// NotifyTransition notifies all observers of a state transition
func (om *ObserverManager) NotifyTransition(from, to, event string) {
	om.each(func(o Observer) { o.OnTransition(from, to, event) })
}

// NotifyStateEnter notifies all observers of state entry
func (om *ObserverManager) NotifyStateEnter(state string) {
	om.each(func(o Observer) { o.OnStateEnter(state) })
}

// NotifyStateExit notifies all observers of state exit
func (om *ObserverManager) NotifyStateExit(state string) {
	om.each(func(o Observer) {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnStateExit(state)
		}
	})
}

// NotifyActionEmitted notifies all observers of an emitted action
func (om *ObserverManager) NotifyActionEmitted(state, action string) {
	om.each(func(o Observer) {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnActionEmitted(state, action)
		}
	})
}

// NotifyStepRejected notifies all observers of a rejected step
func (om *ObserverManager) NotifyStepRejected(state, event, reason string) {
	om.each(func(o Observer) {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnStepRejected(state, event, reason)
		}
	})
}

// NotifyError notifies all observers of a step failure
func (om *ObserverManager) NotifyError(err error) {
	om.each(func(o Observer) {
		if ext, ok := o.(ExtendedObserver); ok {
			ext.OnError(err)
		}
	})
}
