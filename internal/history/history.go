package history

import (
	"context"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/influxdata/influxdb-client-go/api/write"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/ui"
)

const (
	MeasurementStep     = "ramp.step"
	MeasurementPolarity = "ramp.polarity"
	MeasurementRun      = "ramp.run"
)

type pointWriter interface {
	WritePoint(point *write.Point)
}

// Recorder writes every step and finished run of the observed ramps as points to InfluxDB
type Recorder struct {
	writer pointWriter
	now    func() time.Time
}

func newRecorder(writer pointWriter) *Recorder {
	return &Recorder{
		writer: writer,
		now:    time.Now,
	}
}

func (r *Recorder) StepApplied(controller *ramp.Controller, run *ramp.Run, value float64) {
	r.writer.WritePoint(influxdb2.NewPoint(MeasurementStep,
		map[string]string{"id": controller.GetId()},
		map[string]interface{}{
			"value":  value,
			"target": run.Target(),
		},
		r.now(),
	))
}

func (r *Recorder) PolaritySignalled(controller *ramp.Controller, polarity actuators.Polarity) {
	r.writer.WritePoint(influxdb2.NewPoint(MeasurementPolarity,
		map[string]string{"id": controller.GetId()},
		map[string]interface{}{
			"polarity": int(polarity),
		},
		r.now(),
	))
}

func (r *Recorder) RunFinished(controller *ramp.Controller, run *ramp.Run) {
	fields := map[string]interface{}{
		"target":   run.Target(),
		"value":    controller.CurrentValue(),
		"steps":    run.Steps(),
		"duration": r.now().Sub(run.StartedAt()).Seconds(),
	}
	if err := run.Err(); err != nil {
		fields["error"] = err.Error()
	}
	r.writer.WritePoint(influxdb2.NewPoint(MeasurementRun,
		map[string]string{
			"id":    controller.GetId(),
			"state": run.State().String(),
		},
		fields,
		r.now(),
	))
}

// Sink owns the InfluxDB client used by a Recorder
type Sink struct {
	*Recorder
	client   influxdb2.Client
	writeApi api.WriteApi
	writer   *closableWriter
}

// closableWriter drops points once the underlying write api is closed
type closableWriter struct {
	mu     sync.RWMutex
	closed bool
	writer pointWriter
}

func (w *closableWriter) WritePoint(point *write.Point) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	w.writer.WritePoint(point)
}

func (w *closableWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

func NewSink(config configuration.HistoryConfig) *Sink {
	client := influxdb2.NewClient(config.Url, config.Token)
	// non-blocking write client
	writeApi := client.WriteApi(config.Org, config.Bucket)
	writer := &closableWriter{writer: writeApi}
	return &Sink{
		Recorder: newRecorder(writer),
		client:   client,
		writeApi: writeApi,
		writer:   writer,
	}
}

// Run logs write errors until ctx is done
func (s *Sink) Run(ctx context.Context) error {
	errorsCh := s.writeApi.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errorsCh:
			logWriteError(err)
		}
	}
}

// Close flushes pending points and closes the client. Points written afterwards are dropped.
// Write errors are still drained while flushing, the write api blocks on them otherwise.
func (s *Sink) Close() {
	errorsCh := s.writeApi.Errors()
	done := make(chan struct{})
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			select {
			case err, ok := <-errorsCh:
				if !ok {
					return
				}
				logWriteError(err)
			case <-done:
				return
			}
		}
	}()

	s.writer.close()
	s.writeApi.Flush()
	s.writeApi.Close()
	s.client.Close()
	close(done)
	<-drained
}

func logWriteError(err error) {
	ui.Warning("Unable to write ramp history: %v", err)
}
