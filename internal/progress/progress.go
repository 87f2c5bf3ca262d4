package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Reporter announces how many videos are done after each one.
type Reporter struct {
	log logrus.FieldLogger
	bar *progressbar.ProgressBar
	out io.Writer
}

// New returns a log-only reporter. Pass a writer to also draw a console bar.
func New(log logrus.FieldLogger, barOutput io.Writer) *Reporter {
	return &Reporter{
		log: log.WithField("module", "progress"),
		out: barOutput,
	}
}

// Report records that current of total videos have been handled.
func (r *Reporter) Report(current, total int) {
	remaining := total - current
	r.log.WithFields(logrus.Fields{
		"current":   current,
		"total":     total,
		"remaining": remaining,
	}).Infof("Processed %d/%d videos. %d videos left.", current, total, remaining)

	if r.out == nil {
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("videos"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = r.bar.Set(current)
}

// Finish closes the console bar if one was drawn.
func (r *Reporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
