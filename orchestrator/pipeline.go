// Package orchestrator runs a check-in through analysis, scoring and
// persistence, and decides on caregiver alerts from the stored history.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cognora/checkin-pipeline/alerting"
	"github.com/cognora/checkin-pipeline/emotion"
	"github.com/cognora/checkin-pipeline/model"
	"github.com/cognora/checkin-pipeline/scoring"
)

var (
	ErrMissingUser   = errors.New("orchestrator: user id is required")
	ErrInvalidDate   = errors.New("orchestrator: date must be YYYY-MM-DD")
	ErrNoTranscriber = errors.New("orchestrator: no speech-to-text service configured")
)

type Interpreter interface {
	Interpret(ctx context.Context, transcript, userContext string) (model.EmotionRecord, error)
}

type Extractor interface {
	Extract(text string) model.LinguisticMetrics
}

type Store interface {
	SaveEntry(ctx context.Context, e model.DailyEntry) error
	RecentEntries(ctx context.Context, userID string, max int) ([]model.DailyEntry, error)
	AppendAlert(ctx context.Context, a model.AlertLog) error
	AlertHistory(ctx context.Context, userID string) ([]model.AlertLog, error)
}

type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, name string, audio io.Reader) (string, error)
}

// Deps are the collaborators. Transcriber may be nil; Now, NewID and Log
// have defaults.
type Deps struct {
	Interpreter Interpreter
	Extractor   Extractor
	Store       Store
	Notifier    Notifier
	Transcriber Transcriber
	Log         logrus.FieldLogger
	Now         func() time.Time
	NewID       func() string
}

type Options struct {
	HistoryDays   int
	CheckOnSubmit bool
	Subject       string
	Rules         alerting.Rules
}

type Pipeline struct {
	d         Deps
	opts      Options
	evaluator *alerting.Evaluator
}

func NewPipeline(d Deps, o Options) *Pipeline {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if o.HistoryDays <= 0 {
		o.HistoryDays = 7
	}
	if o.Subject == "" {
		o.Subject = "Cognora+ Wellness Alert"
	}
	return &Pipeline{d: d, opts: o, evaluator: alerting.New(o.Rules)}
}

// Submit analyses, scores and saves one check-in. Analysis failures degrade
// to neutral values and a failed save is reported through Saved; the only
// errors are invalid input.
func (p *Pipeline) Submit(ctx context.Context, in CheckIn) (SubmitResult, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return SubmitResult{}, ErrMissingUser
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = p.d.Now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}
	log := p.d.Log.WithFields(logrus.Fields{"user_id": userID, "date": date, "source": in.Source})

	var (
		metrics model.LinguisticMetrics
		rec     model.EmotionRecord
		g       errgroup.Group
	)
	g.Go(func() error {
		metrics = p.d.Extractor.Extract(in.Transcript)
		return nil
	})
	g.Go(func() error {
		var err error
		rec, err = p.d.Interpreter.Interpret(ctx, in.Transcript, in.Context)
		if err != nil {
			log.WithError(err).Warn("emotion analysis failed, using neutral score")
			if !rec.Failed() {
				rec = emotion.Unavailable()
			}
		}
		return nil
	})
	_ = g.Wait()
	if metrics.Error != "" {
		log.WithField("error", metrics.Error).Warn("linguistic analysis degraded")
	}

	score := scoring.Calculate(rec, metrics)
	entry := model.DailyEntry{
		ID:         p.d.NewID(),
		UserID:     userID,
		Date:       date,
		Transcript: in.Transcript,
		Emotion:    rec,
		Metrics:    metrics,
		Score:      score,
		Feedback:   scoring.Feedback(score),
		Source:     in.Source,
		Timestamp:  p.d.Now().UTC(),
	}

	res := SubmitResult{Entry: entry, Saved: true}
	if err := p.d.Store.SaveEntry(ctx, entry); err != nil {
		log.WithError(err).Error("save entry")
		res.Saved = false
	}
	log.WithFields(logrus.Fields{"score": score.Score, "zone": score.Zone, "saved": res.Saved}).Info("check-in scored")

	if res.Saved && p.opts.CheckOnSubmit {
		out, err := p.CheckAndSendAlerts(ctx, userID)
		if err != nil {
			log.WithError(err).Warn("alert check failed")
		} else {
			res.Alert = &out
		}
	}
	return res, nil
}

// SubmitVoice transcribes the recording and submits it as a voice check-in.
func (p *Pipeline) SubmitVoice(ctx context.Context, in VoiceCheckIn) (SubmitResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return SubmitResult{}, ErrMissingUser
	}
	if p.d.Transcriber == nil {
		return SubmitResult{}, ErrNoTranscriber
	}
	text, err := p.d.Transcriber.Transcribe(ctx, in.AudioName, in.Audio)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("transcribe: %w", err)
	}
	return p.Submit(ctx, CheckIn{
		UserID:     in.UserID,
		Date:       in.Date,
		Transcript: text,
		Context:    in.Context,
		Source:     model.SourceVoice,
	})
}

// CheckAndSendAlerts evaluates the user's recent history and, when an alert
// is needed, notifies once and records the attempt. Every call that needs an
// alert sends again. A history that cannot be read is treated as empty.
func (p *Pipeline) CheckAndSendAlerts(ctx context.Context, userID string) (AlertOutcome, error) {
	if strings.TrimSpace(userID) == "" {
		return AlertOutcome{}, ErrMissingUser
	}
	log := p.d.Log.WithField("user_id", userID)
	entries, err := p.d.Store.RecentEntries(ctx, userID, p.opts.HistoryDays)
	if err != nil {
		log.WithError(err).Error("fetch recent entries")
		entries = nil
	}

	h := history(entries)
	d := p.evaluator.Evaluate(h)
	out := AlertOutcome{UserID: userID, Decision: d, Scores: h.Scores, Emotions: h.Emotions}
	if !d.Needed {
		out.Message = "No alert conditions met"
		return out, nil
	}

	log = log.WithField("urgency", d.Urgency)
	if err := p.d.Notifier.Notify(ctx, p.opts.Subject, alertBody(userID, d, h)); err != nil {
		log.WithError(err).Warn("notify caregiver")
	} else {
		out.Sent = true
	}

	entry := model.AlertLog{
		ID:        p.d.NewID(),
		UserID:    userID,
		Timestamp: p.d.Now().UTC(),
		Decision:  d,
		Sent:      out.Sent,
	}
	if err := p.d.Store.AppendAlert(ctx, entry); err != nil {
		log.WithError(err).Error("append alert log")
	}

	out.Message = "Failed to send alert"
	if out.Sent {
		out.Message = "Alert sent to caregiver"
	}
	log.WithField("sent", out.Sent).Info(out.Message)
	return out, nil
}

func (p *Pipeline) AlertHistory(ctx context.Context, userID string) ([]model.AlertLog, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	return p.d.Store.AlertHistory(ctx, userID)
}

// History returns up to days entries, most recent first.
func (p *Pipeline) History(ctx context.Context, userID string, days int) ([]model.DailyEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	if days <= 0 {
		days = p.opts.HistoryDays
	}
	return p.d.Store.RecentEntries(ctx, userID, days)
}
