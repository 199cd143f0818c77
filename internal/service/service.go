// Package service orchestrates one derivation call: validate the path,
// reach the prefix node through the cache (or a direct walk), derive the
// leaf, extract entropy, format the output and wipe every intermediate on
// the way out.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"entropyd/go-core/internal/apps"
	"entropyd/go-core/internal/config"
	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/internal/fingerprint"
	"entropyd/go-core/internal/hardening"
	"entropyd/go-core/internal/keycache"
	"entropyd/go-core/internal/platform/privacylog"
	"entropyd/go-core/pkg/models"
)

// ErrEntropyQuality is returned only in strict mode; outside strict mode
// quality findings ride along in the output's Quality field.
var ErrEntropyQuality = errors.New("entropy quality below threshold")

type Options struct {
	Language string
	Charset  string
	UpperHex bool
	Strict   bool
	NoCache  bool
}

type Service struct {
	cfg     config.Config
	cache   *keycache.Cache
	log     *slog.Logger
	metrics *MetricsState
}

// New builds a derivation service owning its cache instance. The cache
// fails open: if it cannot be constructed the service runs uncached.
func New(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) *Service {
	if logger == nil {
		logger = DefaultLogger(cfg.LogLevel)
	} else {
		logger = slog.New(privacylog.WrapHandler(logger.Handler()))
	}
	s := &Service{cfg: cfg, log: logger, metrics: NewMetricsState()}
	if cfg.CacheEnabled {
		cache, err := keycache.New(keycache.Config{Capacity: cfg.CacheCapacity, TTL: cfg.CacheTTL}, reg)
		if err != nil {
			logger.Warn("key cache unavailable, derivations run uncached", "error", err.Error())
		} else {
			s.cache = cache
		}
	}
	return s
}

// DefaultLogger returns a JSON slog logger behind the sanitizing handler,
// so seed or key material can never reach the sink.
func DefaultLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(privacylog.WrapHandler(handler))
}

// Derive converts a 64-byte master seed into one application output.
// Identical inputs always produce identical outputs; enabling or
// bypassing the cache never changes the result.
func (s *Service) Derive(seed []byte, application, lengthParam, index uint32, opts Options) (models.ApplicationOutput, error) {
	started := time.Now()
	out, err := s.derive(seed, application, lengthParam, index, opts, started)
	s.metrics.RecordOp("derive", started)
	if err != nil {
		s.metrics.RecordOpError("derive")
	}
	return out, err
}

func (s *Service) derive(seed []byte, application, lengthParam, index uint32, opts Options, started time.Time) (models.ApplicationOutput, error) {
	// All parameter validation happens before any cryptographic work.
	if len(seed) != derivation.SeedSize {
		return models.ApplicationOutput{}, fmt.Errorf("%w: got %d", derivation.ErrInvalidSeedLength, len(seed))
	}
	path, err := derivation.NewPath(application, lengthParam, index)
	if err != nil {
		return models.ApplicationOutput{}, err
	}
	formatter, err := apps.ForPath(path, apps.Options{
		Language: opts.Language,
		Charset:  opts.Charset,
		UpperHex: opts.UpperHex,
	})
	if err != nil {
		return models.ApplicationOutput{}, err
	}

	guard := hardening.NewGuard()
	defer guard.Wipe()

	node, err := s.prefixNode(seed, path, opts.NoCache)
	if err != nil {
		return models.ApplicationOutput{}, err
	}
	guard.Track(node.Key)
	guard.Track(node.ChainCode)

	leaf, err := derivation.DeriveStep(node, path.Index)
	if err != nil {
		return models.ApplicationOutput{}, err
	}
	guard.Track(leaf.Key)
	guard.Track(leaf.ChainCode)

	extractStarted := time.Now()
	raw, err := derivation.ExtractEntropy(leaf, path, formatter.RequiredBytes())
	hardening.FloorSince(extractStarted, s.cfg.TimingFloor)
	if err != nil {
		return models.ApplicationOutput{}, err
	}
	guard.Track(raw)

	score, warnings := hardening.ScoreEntropy(raw)
	if len(warnings) > 0 {
		s.log.Warn("entropy quality warnings",
			"path", path.String(),
			"quality_score", score,
			"warning_count", len(warnings),
		)
	}
	if (opts.Strict || s.cfg.StrictQuality) && score < s.cfg.MinQualityScore {
		return models.ApplicationOutput{}, fmt.Errorf("%w: score %d below %d", ErrEntropyQuality, score, s.cfg.MinQualityScore)
	}

	out, err := formatter.Format(raw)
	if err != nil {
		return models.ApplicationOutput{}, err
	}
	out.Quality = &models.QualityReport{Score: score, Warnings: warnings}

	s.log.Debug("derivation complete",
		"path", path.String(),
		"application", appName(path.Application),
		"cached", s.cache != nil && !opts.NoCache,
		"quality_score", score,
		"duration_us", time.Since(started).Microseconds(),
	)
	return out, nil
}

// prefixNode resolves the (purpose, application, length) node, through
// the cache unless bypassed. The returned key is a private copy owned by
// the caller.
func (s *Service) prefixNode(seed []byte, path derivation.Path, noCache bool) (*derivation.DerivedKey, error) {
	deriver := func() (*derivation.DerivedKey, error) {
		return derivation.DeriveChain(seed, path.Prefix())
	}
	if s.cache == nil || noCache {
		return deriver()
	}
	return s.cache.GetOrDerive(fingerprint.Seed(seed), path.EncodePrefix(), deriver)
}

// ClearCache purges the cache and scrubs its key material.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

func (s *Service) CacheStats() models.CacheStats {
	return s.cache.Stats()
}

func (s *Service) Metrics() (map[string]models.OperationMetric, time.Time) {
	return s.metrics.Snapshot()
}

func appName(application uint32) string {
	switch application {
	case derivation.AppMnemonic:
		return string(models.OutputKindMnemonic)
	case derivation.AppHex:
		return string(models.OutputKindHex)
	case derivation.AppPassword:
		return string(models.OutputKindPassword)
	default:
		return "unknown"
	}
}
