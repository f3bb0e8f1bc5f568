package core

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jasonlvhit/gocron"
	"gopkg.in/yaml.v3"

	"github.com/bitdog-io/restraining-bolt/internal/app"
	"github.com/bitdog-io/restraining-bolt/internal/audio"
	"github.com/bitdog-io/restraining-bolt/internal/device"
	"github.com/bitdog-io/restraining-bolt/internal/model"
	"github.com/bitdog-io/restraining-bolt/internal/monitor"
	"github.com/bitdog-io/restraining-bolt/internal/notify"
)

// eventRetention bounds how long dashboard event rows are kept.
const eventRetention = 7 * 24 * time.Hour

// System assembles the supervisor from a YAML configuration: serial link,
// relay board, audio player, XMPP alerts, dashboard and event log.
type System struct {
	cfg *model.Config

	link      io.ReadWriteCloser
	relay     *device.RelayBoard
	store     *app.EventStore
	dashboard *app.Server
	sup       *Supervisor

	scheduler *gocron.Scheduler
	schedStop chan bool
	started   bool
}

// NewSystem reads the YAML configuration at cfgPath and constructs all
// components. The flight-controller link must open; everything else degrades
// gracefully when absent.
func NewSystem(cfgPath string) (*System, error) {
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, err
	}
	var cfg model.Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()

	minFix, ok := monitor.ParseGpsFixType(cfg.Failsafe.MinGpsFix)
	if !ok {
		return nil, fmt.Errorf("unknown min_gps_fix %q", cfg.Failsafe.MinGpsFix)
	}

	link, err := device.OpenRaw(cfg.Link.Device, cfg.Link.Baud)
	if err != nil {
		return nil, fmt.Errorf("open mavlink link %s: %w", cfg.Link.Device, err)
	}

	store, err := app.OpenEventStore(cfg.Web.DBPath)
	if err != nil {
		_ = link.Close()
		return nil, err
	}

	s := &System{
		cfg:       &cfg,
		link:      link,
		relay:     device.NewRelayBoard(cfg.Relay.Device, cfg.Relay.Baud),
		store:     store,
		dashboard: app.NewServer(cfg.Web.Addr, store),
	}

	sup := NewSupervisor(SupervisorConfig{
		EmergencyStopTimeout: time.Duration(cfg.Failsafe.EmergencyStopTimeoutS) * time.Second,
		MinGpsFix:            minFix,
		TickInterval:         time.Duration(cfg.Failsafe.TickIntervalMs) * time.Millisecond,
		TargetSystem:         cfg.Link.TargetSystem,
	}, link, audio.NewPlayer(cfg.Audio.Dir, cfg.Audio.Player), s.relay)

	sup.SetEventSink(store)
	sup.SetStatusSink(s.dashboard.Publish)
	sup.SetAlerts(notify.Xmpp{Config: notify.Config{
		Host:     cfg.Xmpp.Host,
		Jid:      cfg.Xmpp.Jid,
		Password: cfg.Xmpp.Password,
		To:       cfg.Xmpp.To,
	}})
	s.sup = sup

	// daily event-log pruning
	s.scheduler = gocron.NewScheduler()
	s.scheduler.Every(1).Day().At("03:00").Do(func() {
		_ = store.Prune(eventRetention)
	})

	return s, nil
}

// StartAll starts the dashboard, the pruning scheduler and the supervisor.
func (s *System) StartAll() {
	if s.started {
		return
	}
	go s.dashboard.Start()
	s.schedStop = s.scheduler.Start()
	s.sup.Start()
	s.started = true
}

// StopAll stops all running components gracefully.
func (s *System) StopAll() {
	if !s.started {
		return
	}
	// closing the link first unblocks the supervisor's read loop
	_ = s.link.Close()
	s.sup.Stop()
	if s.schedStop != nil {
		close(s.schedStop)
	}
	s.dashboard.Stop()
	_ = s.relay.Close()
	_ = s.store.Close()
	s.started = false
}
