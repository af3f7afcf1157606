package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/api"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/history"
	"github.com/ramp2go/ramp2go/internal/persistence"
	"github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/statistics"
	"github.com/ramp2go/ramp2go/internal/ui"
	"golang.org/x/sync/errgroup"
)

func RunDaemon() {
	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence: %v", err)
	}

	hub := api.NewHub()
	observers := []ramp.Observer{hub}

	var sink *history.Sink
	if configuration.CurrentConfig.History.Enabled {
		sink = history.NewSink(configuration.CurrentConfig.History)
		observers = append(observers, sink)
	}

	controllers, err := InitializeObjects(pers, observers...)
	if err != nil {
		ui.Fatal("%v", err)
	}
	if len(controllers) == 0 {
		ui.Fatal("No valid ramp configurations, exiting.")
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			port := configuration.CurrentConfig.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		enabled := configuration.CurrentConfig.Api.Enabled
		if enabled {
			// === REST api
			rest := api.CreateRestService(prometheus.DefaultRegisterer, hub)
			addr := fmt.Sprintf("%s:%d", configuration.CurrentConfig.Api.Host, configuration.CurrentConfig.Api.Port)

			g.Add(func() error {
				ui.Info("Starting api on %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start api: %w", err)
				}
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping api: %v", err)
				} else {
					ui.Info("Api stopped.")
				}
			})
		}
	}
	// ramps must be stopped before the history sink is closed, since stopping a ramp still records points
	var rampsStopped sync.WaitGroup
	rampsStopped.Add(len(controllers))
	{
		if sink != nil {
			// === history
			g.Add(func() error {
				err := sink.Run(ctx)
				rampsStopped.Wait()
				sink.Close()
				ui.Info("History sink closed.")
				return err
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		// === ramps
		for _, controller := range controllers {
			c := controller
			g.Add(func() error {
				defer rampsStopped.Done()
				if rampConfig, ok := configuration.FindRampConfig(c.GetId()); ok && rampConfig.Target != nil {
					ui.Info("Ramp %s: ramping to startup target %v", c.GetId(), *rampConfig.Target)
					c.RampTo(*rampConfig.Target)
				}
				<-ctx.Done()
				c.Stop()
				ui.Info("Ramp %s stopped at %v.", c.GetId(), c.CurrentValue())
				if err := saveRampState(pers, c); err != nil {
					ui.Warning("Unable to persist state of ramp %s: %v", c.GetId(), err)
					return err
				}
				return nil
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	err = g.Run()
	closeActuators()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects creates all configured actuators and ramp controllers
func InitializeObjects(pers persistence.Persistence, observers ...ramp.Observer) ([]*ramp.Controller, error) {
	var actuatorList []actuators.Actuator
	for _, config := range configuration.CurrentConfig.Actuators {
		actuator, err := actuators.NewActuator(config)
		if err != nil {
			return nil, fmt.Errorf("unable to process actuator configuration %s: %w", config.ID, err)
		}
		actuators.ActuatorMap.Set(config.ID, actuator)
		actuatorList = append(actuatorList, actuator)
	}

	rampConfigs := configuration.CurrentConfig.Ramps
	controllers := make([]*ramp.Controller, len(rampConfigs))

	var g errgroup.Group
	if !configuration.CurrentConfig.RunInitialRampsInParallel {
		g.SetLimit(1)
	}
	for i, config := range rampConfigs {
		i, config := i, config
		g.Go(func() error {
			controller, err := NewRampController(config, pers, observers...)
			if err != nil {
				return err
			}
			controllers[i] = controller
			ramp.RampMap.Set(config.ID, controller)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statistics.Register(statistics.NewActuatorCollector(actuatorList))
	statistics.Register(statistics.NewRampCollector(controllers))

	return controllers, nil
}

// NewRampController creates the controller of a ramp, starting at its initial or persisted value
func NewRampController(config configuration.RampConfig, pers persistence.Persistence, observers ...ramp.Observer) (*ramp.Controller, error) {
	actuator, ok := actuators.ActuatorMap.Get(config.Actuator)
	if !ok {
		return nil, fmt.Errorf("ramp %s: actuator '%s' not found", config.ID, config.Actuator)
	}

	params, err := ramp.ParamsFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("ramp %s: %w", config.ID, err)
	}

	initialValue := 0.0
	if config.InitialValue != nil {
		initialValue = *config.InitialValue
	}
	if config.RestoreLastValue && pers != nil {
		state, err := pers.LoadRampState(config.ID)
		if err == nil {
			ui.Info("Ramp %s: restoring last value %v", config.ID, state.Value)
			initialValue = state.Value
		} else if !errors.Is(err, os.ErrNotExist) {
			ui.Warning("Ramp %s: unable to load last value: %v", config.ID, err)
		}
	}

	return ramp.NewController(config.ID, actuator, params, initialValue, observers...)
}

func saveRampState(pers persistence.Persistence, controller *ramp.Controller) error {
	return pers.SaveRampState(controller.GetId(), persistence.RampState{
		Value:     controller.CurrentValue(),
		Polarity:  int(controller.Polarity()),
		Timestamp: time.Now(),
	})
}

// closeActuators releases the ports and connections held by all actuators
func closeActuators() {
	for id, actuator := range actuators.ActuatorMap.Items() {
		if err := actuators.Close(actuator); err != nil {
			ui.Warning("Unable to close actuator %s: %v", id, err)
		}
	}
}
