package observability

// MultiObserver fans one operation notification out to several observers.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver combines observers into one. Nil entries are skipped.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, o := range observers {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
	return m
}

func (m *MultiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m.observers {
		o.ObserveOperation(ctx)
	}
}
