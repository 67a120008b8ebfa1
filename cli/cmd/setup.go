package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/terrace/adapter"
	redisadapter "github.com/pithecene-io/terrace/adapter/redis"
	"github.com/pithecene-io/terrace/adapter/webhook"
	"github.com/pithecene-io/terrace/cli/config"
	"github.com/pithecene-io/terrace/completion"
	"github.com/pithecene-io/terrace/log"
	"github.com/pithecene-io/terrace/stage"
	"github.com/pithecene-io/terrace/statusrec"
)

// defaultConfigFile is used when --config is not given and the file
// exists in the working directory.
const defaultConfigFile = "terrace.yaml"

// loadConfig resolves the config file for a command invocation. A
// missing default file yields an empty config, not an error; an
// explicit --config path must exist.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return &config.Config{}, nil
}

// services bundles the collaborators a command builds from config.
type services struct {
	cfg    *config.Config
	logger *log.SugaredLogger

	record    statusrec.Record
	detector  *completion.Detector
	engine    *stage.Engine
	publisher adapter.Adapter
}

// buildServices wires config into the detector, status record,
// transition engine and event publisher for one run folder.
func buildServices(c *cli.Context, runFolder string) (*services, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger(runFolder).Sugar()

	s := &services{cfg: cfg, logger: logger}

	s.detector = completion.NewDetector(logger)
	s.detector.Grace = cfg.Completion.Grace.Duration
	s.detector.MirrorWait = cfg.Completion.MirrorWait.Duration
	s.detector.TransferLog = cfg.Completion.TransferLog

	if cfg.Status.URL != "" {
		record, err := statusrec.NewRedis(statusrec.RedisConfig{
			URL:       cfg.Status.URL,
			KeyPrefix: cfg.Status.KeyPrefix,
		})
		if err != nil {
			s.Close()
			return nil, err
		}
		s.record = record
	}

	s.publisher, err = newPublisher(cfg.Adapter)
	if err != nil {
		s.Close()
		return nil, err
	}

	engine := stage.NewEngine(logger)
	engine.Record = s.record
	engine.UpdateStatus = cfg.Status.Update && s.record != nil
	engine.FixOwnership = cfg.Ownership.Fix
	engine.Group = cfg.Ownership.Group
	engine.AnalysisGroups = cfg.Ownership.AnalysisGroups
	engine.Publisher = s.publisher
	engine.Actor = cfg.Actor
	if cfg.Journal.Path != "" {
		engine.Journal = stage.NewJournal(cfg.Journal.Path)
	}
	s.engine = engine

	return s, nil
}

// newPublisher builds an event publisher from adapter config. An empty
// type means no publication.
func newPublisher(cfg config.AdapterConfig) (adapter.Adapter, error) {
	retries := redisadapter.DefaultRetries
	if cfg.Retries != nil {
		retries = *cfg.Retries
	}
	var timeout time.Duration
	if cfg.Timeout.Duration > 0 {
		timeout = cfg.Timeout.Duration
	}

	switch cfg.Type {
	case "":
		return nil, nil
	case "redis":
		return redisadapter.New(redisadapter.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: timeout,
			Retries: retries,
		})
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: timeout,
			Retries: retries,
		})
	default:
		return nil, fmt.Errorf("unknown adapter type: %q (must be redis or webhook)", cfg.Type)
	}
}

// Close releases the record and publisher connections.
func (s *services) Close() {
	if s.record != nil {
		if err := s.record.Close(); err != nil {
			s.logger.Warnf("close status record: %v", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Warnf("close publisher: %v", err)
		}
	}
}
