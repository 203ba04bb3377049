package simulate

import "errors"

var (
	// ErrIncompatibleObservable means a model cannot produce the
	// requested observable.
	ErrIncompatibleObservable = errors.New("model is incompatible with observable")

	// ErrMissingDistribution means a model parameter has no random
	// distribution bound to it.
	ErrMissingDistribution = errors.New("parameter has no distribution")

	// ErrNotComposite means a submodel was added to a model that does
	// not accept submodels.
	ErrNotComposite = errors.New("model does not accept submodels")

	// ErrWrongSubmodelKind means a submodel's kind does not match what
	// the enclosing composite model requires.
	ErrWrongSubmodelKind = errors.New("submodel has the wrong kind")

	// ErrNoSubmodels means a composite model was finalized without any
	// submodels.
	ErrNoSubmodels = errors.New("composite model has no submodels")

	// ErrNoObservables means a simulator was run before any observable
	// was set.
	ErrNoObservables = errors.New("no observables set")

	// ErrSubmodelOnly means a submodel-kind model was used where a full
	// model is required.
	ErrSubmodelOnly = errors.New("model can only be used as a submodel")
)
