package clients

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// --- Caregiver notification (/notify) ---
type NotifyReq struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Caregiver string `json:"caregiver,omitempty"`
}

// Webhook delivers alerts to the notification service. Any non-200 reply
// counts as a failed delivery.
type Webhook struct {
	h         *HTTP
	url       string
	caregiver string
}

func NewWebhook(h *HTTP, url, caregiver string) *Webhook {
	return &Webhook{h: h, url: strings.TrimRight(url, "/"), caregiver: caregiver}
}

func (w *Webhook) Notify(ctx context.Context, subject, body string) error {
	req := NotifyReq{Subject: subject, Body: body, Caregiver: w.caregiver}
	return w.h.postJSON(ctx, "notify", w.url+"/notify", req, nil)
}

// LogNotifier writes alerts to the log instead of delivering them.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, subject, body string) error {
	n.log.WithField("subject", subject).Warn(body)
	return nil
}
