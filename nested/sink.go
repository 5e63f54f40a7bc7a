package nested

import "github.com/sirupsen/logrus"

// Sink receives one record per evaluated level, after the level is done.
// Sinks are called from the sampling goroutine and must not retain or
// modify the population.
type Sink interface {
	Level(rec LevelRecord)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(rec LevelRecord)

func (f SinkFunc) Level(rec LevelRecord) { f(rec) }

type multiSink []Sink

func (m multiSink) Level(rec LevelRecord) {
	for _, s := range m {
		s.Level(rec)
	}
}

// LogSink writes the per-level diagnostics to a logrus logger.
type LogSink struct {
	Log logrus.FieldLogger
}

func (s LogSink) Level(rec LevelRecord) {
	e := s.Log.WithFields(logrus.Fields{
		"level":      rec.K,
		"threshold":  rec.Threshold,
		"var_median": rec.VarMedian,
		"survivors":  rec.Survivors,
	})
	if !rec.Resampled {
		e.Info("target threshold reached")
		return
	}
	e.WithField("accept_rate", rec.AcceptRate).Info("level complete")
}
