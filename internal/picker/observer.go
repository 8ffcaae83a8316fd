package picker

// Observer receives picker notifications. Calls happen synchronously on the
// goroutine driving the picker, once per state transition.
type Observer interface {
	// FolderChanged reports the folder now being displayed.
	FolderChanged(path string)
	// SelectionChanged reports the new selection; "" means it was cleared.
	SelectionChanged(path string)
}

// ObserverFuncs adapts two optional functions to an Observer
type ObserverFuncs struct {
	Folder    func(path string)
	Selection func(path string)
}

func (o ObserverFuncs) FolderChanged(path string) {
	if o.Folder != nil {
		o.Folder(path)
	}
}

func (o ObserverFuncs) SelectionChanged(path string) {
	if o.Selection != nil {
		o.Selection(path)
	}
}

// Observers fans notifications out in order
type Observers []Observer

func (obs Observers) FolderChanged(path string) {
	for _, o := range obs {
		if o != nil {
			o.FolderChanged(path)
		}
	}
}

func (obs Observers) SelectionChanged(path string) {
	for _, o := range obs {
		if o != nil {
			o.SelectionChanged(path)
		}
	}
}

type nopObserver struct{}

func (nopObserver) FolderChanged(string)    {}
func (nopObserver) SelectionChanged(string) {}
