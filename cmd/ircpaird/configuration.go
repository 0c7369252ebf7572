package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/ircpair/ircpair/pkg/agent"
	"github.com/ircpair/ircpair/pkg/relay"
	"github.com/ircpair/ircpair/pkg/transport/quic"
	"github.com/ircpair/ircpair/pkg/transport/tcp"
)

// tomlConfig describes the TOML-configuration.
type tomlConfig struct {
	Core      coreConf
	Logging   logConf
	Status    statusConf
	Profiling profilingConf
	Listen    []listenConf
}

// coreConf describes the Core-configuration block.
type coreConf struct {
	BufferSize int  `toml:"buffer-size"`
	TraceLines bool `toml:"trace-lines"`
}

// logConf describes the Logging-configuration block.
type logConf struct {
	Level        string
	ReportCaller bool `toml:"report-caller"`
	Format       string
}

// statusConf describes the Status-configuration block.
type statusConf struct {
	Listen string
}

// profilingConf describes the Profiling-configuration block.
type profilingConf struct {
	Enabled bool
}

// listenConf describes one Listen-configuration block.
type listenConf struct {
	Protocol string
	Endpoint string
}

// defaultListen is used when the configuration holds no listen block at all.
var defaultListen = listenConf{Protocol: "tcp", Endpoint: "127.0.0.1:6667"}

// listener is a transport listener feeding the relay Manager.
type listener interface {
	Start() error
	Close() error
}

// daemon bundles the running parts of ircpaird.
type daemon struct {
	manager   *relay.Manager
	listeners []listener
	status    *agent.StatusAgent
	watcher   *fsnotify.Watcher
	profiling bool
}

// Close tears everything down, listeners before the Manager.
func (d *daemon) Close() error {
	var errs *multierror.Error

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	for _, l := range d.listeners {
		if err := l.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if d.status != nil {
		if err := d.status.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if err := d.manager.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

// applyLogging configures logrus from the Logging-configuration block.
func applyLogging(conf logConf) {
	if conf.Level != "" {
		if lvl, err := log.ParseLevel(conf.Level); err != nil {
			log.WithFields(log.Fields{
				"level":    conf.Level,
				"error":    err,
				"provided": "panic,fatal,error,warn,info,debug,trace",
			}).Warn("Failed to set log level. Please select one of the provided ones")
		} else {
			log.SetLevel(lvl)
		}
	}

	log.SetReportCaller(conf.ReportCaller)

	switch conf.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})

	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	default:
		log.Warn("Unknown logging format")
	}
}

// parseListen inspects a "listen" listenConf and returns a listener.
func parseListen(conv listenConf, manager *relay.Manager) (listener, error) {
	switch conv.Protocol {
	case "tcp":
		return tcp.NewListener(conv.Endpoint, manager), nil

	case "quic":
		return quic.NewListener(conv.Endpoint, manager), nil

	default:
		return nil, fmt.Errorf("unknown listen.protocol %q", conv.Protocol)
	}
}

// watchLogging re-applies the Logging-configuration block whenever the file
// changes. The other blocks require a restart.
func watchLogging(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// watch the directory; editors tend to replace the file on save
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(filename) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				var conf tomlConfig
				if _, err := toml.DecodeFile(filename, &conf); err != nil {
					log.WithError(err).Warn("Failed to re-parse the configuration file")
					continue
				}

				applyLogging(conf.Logging)
				log.WithField("file", filename).Info("Reloaded logging configuration")

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("Error watching the configuration file")
			}
		}
	}()

	return watcher, nil
}

// parseDaemon creates the daemon based on the given TOML configuration.
func parseDaemon(filename string) (d *daemon, err error) {
	var conf tomlConfig
	if _, err = toml.DecodeFile(filename, &conf); err != nil {
		return
	}

	applyLogging(conf.Logging)

	d = &daemon{
		manager:   relay.NewManager(conf.Core.BufferSize, conf.Core.TraceLines),
		profiling: conf.Profiling.Enabled,
	}

	if len(conf.Listen) == 0 {
		conf.Listen = []listenConf{defaultListen}
	}

	for _, conv := range conf.Listen {
		l, lErr := parseListen(conv, d.manager)
		if lErr != nil {
			err = lErr
			return
		}
		d.listeners = append(d.listeners, l)
	}

	if conf.Status.Listen != "" {
		d.status = agent.NewStatusAgent(conf.Status.Listen, d.manager)
	}

	if watcher, wErr := watchLogging(filename); wErr != nil {
		log.WithError(wErr).Warn("Failed to watch the configuration file")
	} else {
		d.watcher = watcher
	}

	return
}
