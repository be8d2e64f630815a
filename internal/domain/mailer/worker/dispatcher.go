package worker

import (
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"

	"go.uber.org/zap"
)

// EmailTask is one campaign message to deliver.
type EmailTask struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
}

// sendPacing is the courtesy delay between sequential campaign sends, to
// stay under the provider rate limit. Not a correctness mechanism.
const sendPacing = 300 * time.Millisecond

// Dispatcher delivers campaign emails sequentially on a single background
// goroutine. Campaign volume is small (customer mailing list), so one worker
// with pacing is deliberate.
type Dispatcher struct {
	queue  chan EmailTask
	mailer service.MailerService
}

func NewDispatcher(mailer service.MailerService, bufferSize int) *Dispatcher {
	return &Dispatcher{
		queue:  make(chan EmailTask, bufferSize),
		mailer: mailer,
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start() {
	go d.run()
	logger.Log.Info("mail dispatcher started")
}

func (d *Dispatcher) run() {
	for task := range d.queue {
		if err := d.mailer.Send(task.ToEmail, task.ToName, task.Subject, task.HTML); err != nil {
			// A failed recipient does not stop the campaign.
			logger.Log.Warn("campaign email failed",
				zap.String("to", task.ToEmail),
				zap.Error(err),
			)
		}
		time.Sleep(sendPacing)
	}
}

// Enqueue adds a task, dropping it when the queue is full.
func (d *Dispatcher) Enqueue(task EmailTask) bool {
	select {
	case d.queue <- task:
		return true
	default:
		logger.Log.Warn("mail queue full, dropping task", zap.String("to", task.ToEmail))
		return false
	}
}
