package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/config"
	"github.com/dietia/dietia-backend/internal/metrics"
	"github.com/dietia/dietia-backend/pkg/mailer"
	tpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

// Notifier enqueues e-mails for the worker. Failures are logged and never
// reach the caller.
type Notifier struct {
	Pub    JobPublisher
	Cfg    *config.Config
	Geo    tpl.GeoResolver
	Logger *logrus.Logger
}

func NewNotifier(pub JobPublisher, cfg *config.Config, geo tpl.GeoResolver, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Cfg: cfg, Geo: geo, Logger: logger}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.Pub != nil && n.Cfg != nil && n.Cfg.MailSendEnabled
}

// Notify builds a universal-template job of type typ for the recipient.
func (n *Notifier) Notify(ctx context.Context, typ, name, email string, opts ...tpl.Option) {
	if !n.enabled() || email == "" {
		return
	}
	opts = append([]tpl.Option{tpl.WithTime(time.Now())}, opts...)
	data := tpl.NewEmailData(n.Cfg, typ, name, email, opts...)
	job := mailer.EmailJob{To: email, Template: tpl.Universal, Data: tpl.ToMap(data)}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		metrics.EmailQueueFailures.Add(1)
		if n.Logger != nil {
			n.Logger.WithError(err).WithFields(logrus.Fields{"type": typ, "to": email}).Warn("enqueue email failed")
		}
		return
	}
	metrics.EmailsQueued.Add(1)
}

// Security adds the request origin to a notification about account access.
func (n *Notifier) Security(ctx context.Context, typ, name, email string, meta RequestMeta, opts ...tpl.Option) {
	if !n.enabled() {
		return
	}
	base := []tpl.Option{
		tpl.WithIP(meta.IP),
		tpl.WithUserAgent(meta.UserAgent),
		tpl.WithGeoFromIP(ctx, n.Geo, meta.IP),
	}
	n.Notify(ctx, typ, name, email, append(base, opts...)...)
}
