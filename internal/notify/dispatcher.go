package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/calld/internal/scheduler"
)

// PermissionState gates system-level notifications. Denied delivery is not an
// error; the dispatcher degrades to toast-only.
type PermissionState string

const (
	PermissionUnsupported  PermissionState = "unsupported"
	PermissionGranted      PermissionState = "granted"
	PermissionDenied       PermissionState = "denied"
	PermissionUndetermined PermissionState = "undetermined"
)

// ToastDuration is how long the in-app banner stays up.
const ToastDuration = 3 * time.Second

// Toast is the in-app transient banner, always available regardless of
// permission state.
type Toast struct {
	Title   string
	Message string
	Urgent  bool
}

// Dispatcher turns scheduling-engine events into user-visible alerts: a
// system notification when permission is granted, and always a toast.
type Dispatcher struct {
	mu       sync.Mutex
	notifier DesktopNotifier
	state    PermissionState
	sink     func(Toast)
}

// NewDispatcher starts in the undetermined state unless denied is forced by
// configuration. The sink receives toasts; nil means toasts are discarded.
func NewDispatcher(notifier DesktopNotifier, denied bool, sink func(Toast)) *Dispatcher {
	if notifier == nil {
		notifier = NoopDesktopNotifier{}
	}
	state := PermissionUndetermined
	if denied {
		state = PermissionDenied
	}
	return &Dispatcher{notifier: notifier, state: state, sink: sink}
}

func (d *Dispatcher) PermissionState() PermissionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// RequestPermission resolves the undetermined state by probing the desktop
// notifier. Denied stays denied; granted and unsupported are sticky.
func (d *Dispatcher) RequestPermission() PermissionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != PermissionUndetermined {
		return d.state
	}
	if d.notifier.Available() {
		d.state = PermissionGranted
	} else {
		d.state = PermissionUnsupported
	}
	return d.state
}

// Notify shows a system-level alert. No-op unless permission is granted.
func (d *Dispatcher) Notify(title, body string) {
	d.mu.Lock()
	granted := d.state == PermissionGranted
	notifier := d.notifier
	d.mu.Unlock()
	if !granted {
		return
	}
	_ = notifier.Send(title, body)
}

// ToastOut emits an in-app banner through the sink, independent of
// permission state.
func (d *Dispatcher) ToastOut(t Toast) {
	d.mu.Lock()
	sink := d.sink
	d.mu.Unlock()
	if sink != nil {
		sink(t)
	}
}

// Dispatch renders an engine event. Overdue and upcoming events produce both
// a system notification and a toast; tick and idle events carry no alert.
// The emitted toasts are returned for callers that poll instead of sinking.
func (d *Dispatcher) Dispatch(ev scheduler.Event) []Toast {
	var out []Toast
	switch ev.Kind {
	case scheduler.KindOverdue:
		title := "Call overdue"
		body := fmt.Sprintf("You missed the call with %s (%s %s)", ev.Reminder.ContactName, ev.Reminder.CallDate, ev.Reminder.CallTime)
		d.Notify(title, body)
		out = append(out, Toast{Title: title, Message: body, Urgent: true})
	case scheduler.KindUpcoming:
		title := "Upcoming call"
		body := fmt.Sprintf("Call %s in %s", ev.Reminder.ContactName, FormatRemaining(ev.Remaining))
		d.Notify(title, body)
		out = append(out, Toast{Title: title, Message: body})
	}
	if ev.Err != nil {
		out = append(out, Toast{Title: "Storage error", Message: ev.Err.Error(), Urgent: true})
	}
	for _, t := range out {
		d.ToastOut(t)
	}
	return out
}

// FormatRemaining renders a countdown as h:mm:ss or m:ss.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
