package accessor

import (
	"fmt"
	"log"
)

// Notice is a deprecation diagnostic emitted by an accessor.
type Notice struct {
	Accessor string
	Field    string
	Message  string
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Accessor, n.Message)
}

// Notifier receives deprecation notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// LogNotifier writes notices to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	log.Printf("DeprecationWarning: %s", n)
}

type discard struct{}

func (discard) Notify(Notice) {}

// Discard drops every notice.
var Discard Notifier = discard{}
