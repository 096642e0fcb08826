package ports

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notifier surfaces transient, user-visible outcome notices. Notices
// are display-only and never persisted.
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) Notify(NoticeLevel, string) {}
