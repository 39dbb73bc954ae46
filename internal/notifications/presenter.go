package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"vibeconnect/internal/models"
)

// Copy shown by the presenter.
const (
	ItemTitle       = "New Connection Request"
	EmptyTitle      = "All caught up!"
	EmptyBody       = "No new notifications right now."
	AcceptedToast   = "Connection accepted! 🎉"
	DefaultToastTTL = 3 * time.Second
)

// Item is one rendered notification. Quote is empty when the sender left no
// message; Initial is set only when there is no avatar.
type Item struct {
	RequestID uint
	Title     string
	Body      string
	Quote     string
	Avatar    string
	Initial   string
	SentAt    time.Time
}

// View is the host UI the presenter draws into. Calls are made while the
// presenter holds its lock, so implementations must not call back into it.
type View interface {
	Show(items []Item, count int)
	ShowEmpty(title, body string)
	ShowToast(message string)
	DismissToast()
	ShowError(message string)
}

// Actions is the part of the Poller the presenter drives.
type Actions interface {
	Resolve(ctx context.Context, requestID uint, decision models.ConnectionStatus) error
}

// Presenter turns poller snapshots into view updates and forwards user decisions.
type Presenter struct {
	actions  Actions
	view     View
	toastTTL time.Duration

	mu         sync.Mutex
	rendered   bool
	version    uint64
	count      int
	countFns   []func(int)
	toastGen   uint64
	toastTimer *time.Timer
}

// NewPresenter creates a presenter. A non-positive toastTTL uses DefaultToastTTL.
func NewPresenter(actions Actions, view View, toastTTL time.Duration) *Presenter {
	if toastTTL <= 0 {
		toastTTL = DefaultToastTTL
	}
	return &Presenter{actions: actions, view: view, toastTTL: toastTTL, count: -1}
}

// OnCountChange registers fn to be called with the new count whenever it changes.
func (p *Presenter) OnCountChange(fn func(int)) {
	p.mu.Lock()
	p.countFns = append(p.countFns, fn)
	p.mu.Unlock()
}

// Render draws s. Snapshots older than the last one rendered are ignored.
func (p *Presenter) Render(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rendered && s.Version < p.version {
		return
	}
	p.rendered = true
	p.version = s.Version

	if len(s.Notifications) == 0 {
		p.view.ShowEmpty(EmptyTitle, EmptyBody)
	} else {
		items := make([]Item, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			items = append(items, NewItem(n))
		}
		p.view.Show(items, s.Count)
	}

	if s.Count != p.count {
		p.count = s.Count
		for _, fn := range p.countFns {
			fn(s.Count)
		}
	}
}

// Accept accepts requestID. Success shows a short-lived toast.
func (p *Presenter) Accept(ctx context.Context, requestID uint) error {
	if err := p.actions.Resolve(ctx, requestID, models.ConnectionStatusAccepted); err != nil {
		p.showError(err)
		return err
	}
	p.showToast(AcceptedToast)
	return nil
}

// Decline declines requestID.
func (p *Presenter) Decline(ctx context.Context, requestID uint) error {
	if err := p.actions.Resolve(ctx, requestID, models.ConnectionStatusDeclined); err != nil {
		p.showError(err)
		return err
	}
	return nil
}

func (p *Presenter) showError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.ShowError(Message(err))
}

// showToast displays message and schedules its dismissal. A newer toast
// replaces the pending one.
func (p *Presenter) showToast(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.toastTimer != nil {
		p.toastTimer.Stop()
	}
	p.toastGen++
	gen := p.toastGen
	p.view.ShowToast(message)

	p.toastTimer = time.AfterFunc(p.toastTTL, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.toastGen != gen {
			return
		}
		p.toastTimer = nil
		p.view.DismissToast()
	})
}

// Close stops a pending toast timer.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.toastTimer != nil {
		p.toastTimer.Stop()
		p.toastTimer = nil
	}
	p.toastGen++
}

// NewItem renders a single notification.
func NewItem(n models.Notification) Item {
	name := strings.TrimSpace(n.SenderDisplayName)
	if name == "" {
		name = "Someone"
	}
	item := Item{
		RequestID: n.SourceRequestID,
		Title:     ItemTitle,
		Body:      fmt.Sprintf("%s wants to connect with you!", name),
		Avatar:    n.SenderAvatarRef,
		SentAt:    n.CreatedAt,
	}
	if msg := strings.TrimSpace(n.Message); msg != "" {
		item.Quote = `"` + msg + `"`
	}
	if item.Avatar == "" {
		item.Initial = initial(name)
	}
	return item
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// SentMessage is the confirmation shown to the sender of a new request.
func SentMessage(recipientName string) string {
	return fmt.Sprintf("Connection request sent to %s! 🚀", recipientName)
}

// Message maps an error to text suitable for the user.
func Message(err error) string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return "Something went wrong. Please try again."
	}
	switch appErr.Code {
	case models.CodeAlreadyResolved:
		return "This request was already handled."
	case models.CodeNotFound:
		return "This request no longer exists."
	case models.CodeUnauthorized:
		return "You can't respond to this request."
	case models.CodeTransientStore:
		return "Couldn't reach the server. Please try again."
	case models.CodeDuplicateRequest:
		return "Request already sent."
	case models.CodeInvalidTarget:
		return "You can't connect with yourself."
	case models.CodeValidation:
		return appErr.Message
	default:
		return "Something went wrong. Please try again."
	}
}
