// Package notify reports the outcome of a dashboard update to the operator.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/goodtune/qqhelper/internal/config"
	"github.com/rs/zerolog"
)

const (
	successMessage = "Отчёты QQ успешно обновлены!"
	failureFormat  = "Произошла ошибка: %s"
)

// AlertFunc shows a desktop notification.
type AlertFunc func(title, message string) error

// Notifier logs every outcome and optionally raises a desktop alert.
type Notifier struct {
	title  string
	alert  AlertFunc
	logger zerolog.Logger
}

// New creates a notifier. Desktop alerts go through beeep when
// notify.desktop is set.
func New(cfg config.NotifyConfig, logger zerolog.Logger) *Notifier {
	n := &Notifier{
		title:  cfg.AppName,
		logger: logger.With().Str("component", "notify").Logger(),
	}
	if cfg.Desktop {
		beeep.AppName = cfg.AppName
		n.alert = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}
	return n
}

// WithAlert replaces the desktop alert function.
func (n *Notifier) WithAlert(fn AlertFunc) *Notifier {
	n.alert = fn
	return n
}

// Success announces a completed update.
func (n *Notifier) Success() {
	n.logger.Info().Msg(successMessage)
	n.send(successMessage)
}

// Failure announces a failed update with its cause.
func (n *Notifier) Failure(err error) {
	msg := fmt.Sprintf(failureFormat, err)
	n.logger.Error().Stack().Err(err).Msg(msg)
	n.send(msg)
}

func (n *Notifier) send(msg string) {
	if n.alert == nil {
		return
	}
	if err := n.alert(n.title, msg); err != nil {
		n.logger.Warn().Err(err).Msg("Desktop notification failed")
	}
}
