package peers

// Observer receives registry changes the presentation layer must act on.
// Methods are called synchronously from Reconcile, ApplyDamage, Destroy and
// Clear.
type Observer interface {
	PeerJoined(view PeerView)
	PeerLeft(id string)
	PeerRecolored(id string, color uint32)
	PeerDied(id string)
	PeerRevived(id string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Joined    func(view PeerView)
	Left      func(id string)
	Recolored func(id string, color uint32)
	Died      func(id string)
	Revived   func(id string)
}

func (o ObserverFuncs) PeerJoined(view PeerView) {
	if o.Joined != nil {
		o.Joined(view)
	}
}

func (o ObserverFuncs) PeerLeft(id string) {
	if o.Left != nil {
		o.Left(id)
	}
}

func (o ObserverFuncs) PeerRecolored(id string, color uint32) {
	if o.Recolored != nil {
		o.Recolored(id, color)
	}
}

func (o ObserverFuncs) PeerDied(id string) {
	if o.Died != nil {
		o.Died(id)
	}
}

func (o ObserverFuncs) PeerRevived(id string) {
	if o.Revived != nil {
		o.Revived(id)
	}
}
