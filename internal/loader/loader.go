// Package loader reads the whole game data corpus from a Source into a
// Catalog of parsed records.
//
// A unit that cannot be fetched is logged as a warning and left out; the
// rest of the batch still loads. Only an unreachable dilemma listing fails
// a load outright, with ErrSourceUnavailable.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/Jocowski/democracy-mod-maker/internal/source"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/dilemma"
	"github.com/Jocowski/democracy-mod-maker/pkg/table"
	"golang.org/x/sync/errgroup"
)

// ErrSourceUnavailable is returned when the dilemma directory itself cannot
// be listed.
var ErrSourceUnavailable = errors.New("data source unavailable")

// Default locations inside a game data directory.
const (
	DefaultDilemmasDir    = "data/simulation/dilemmas"
	DefaultPoliciesPath   = "data/simulation/policies.csv"
	DefaultSlidersPath    = "data/simulation/sliders.csv"
	DefaultSimulationPath = "data/simulation/simulation.csv"
	DefaultWorkers        = 8
)

// DefaultFallbackDilemmas are loaded when the dilemma listing has no files.
var DefaultFallbackDilemmas = []string{
	"Adoption.txt",
	"AgeBasedDrivingTests.txt",
	"Airport.txt",
	"AirportExpansion.txt",
}

// Config holds configuration for a Loader.
type Config struct {
	Source         source.Source
	DilemmasDir    string
	PoliciesPath   string
	SlidersPath    string
	SimulationPath string
	Fallback       []string
	Workers        int
	Logger         *slog.Logger
}

// Loader loads game data from a Source.
type Loader struct {
	src            source.Source
	dilemmasDir    string
	policiesPath   string
	slidersPath    string
	simulationPath string
	fallback       []string
	workers        int
	logger         *slog.Logger
}

// New creates a Loader, filling unset fields with defaults.
func New(cfg Config) *Loader {
	l := &Loader{
		src:            cfg.Source,
		dilemmasDir:    cfg.DilemmasDir,
		policiesPath:   cfg.PoliciesPath,
		slidersPath:    cfg.SlidersPath,
		simulationPath: cfg.SimulationPath,
		fallback:       cfg.Fallback,
		workers:        cfg.Workers,
		logger:         cfg.Logger,
	}
	if l.dilemmasDir == "" {
		l.dilemmasDir = DefaultDilemmasDir
	}
	if l.policiesPath == "" {
		l.policiesPath = DefaultPoliciesPath
	}
	if l.slidersPath == "" {
		l.slidersPath = DefaultSlidersPath
	}
	if l.simulationPath == "" {
		l.simulationPath = DefaultSimulationPath
	}
	if l.fallback == nil {
		l.fallback = DefaultFallbackDilemmas
	}
	if l.workers < 1 {
		l.workers = DefaultWorkers
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l
}

// Warning records a unit that was left out of a load.
type Warning struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// Report summarizes a load.
type Report struct {
	Source     string        `json:"source" yaml:"source"`
	Policies   int           `json:"policies" yaml:"policies"`
	Sliders    int           `json:"sliders" yaml:"sliders"`
	Simulation int           `json:"simulation" yaml:"simulation"`
	Dilemmas   int           `json:"dilemmas" yaml:"dilemmas"`
	Fallback   bool          `json:"fallback" yaml:"fallback"`
	Warnings   []Warning     `json:"warnings" yaml:"warnings"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

func (r *Report) warn(logger *slog.Logger, p string, err error) {
	logger.Warn("failed to load", "path", p, "error", err)
	r.Warnings = append(r.Warnings, Warning{Path: p, Error: err.Error()})
}

// Load reads every table and dilemma. Missing tables are warnings; the
// returned error is non-nil only for systemic failures.
func (l *Loader) Load(ctx context.Context) (*Catalog, *Report, error) {
	start := time.Now()
	report := &Report{Source: l.src.String()}
	cat := &Catalog{}

	if text, ok := l.fetchTable(ctx, l.policiesPath, report); ok {
		cat.Policies = table.ParsePolicies(text)
	}
	if text, ok := l.fetchTable(ctx, l.slidersPath, report); ok {
		cat.Sliders = table.ParseSliders(text)
	}
	if text, ok := l.fetchTable(ctx, l.simulationPath, report); ok {
		cat.Simulation = table.ParseSimulation(text)
	}

	dilemmas, err := l.loadDilemmas(ctx, report)
	if err != nil {
		return nil, report, err
	}
	cat.Dilemmas = dilemmas
	cat.LoadedAt = time.Now()

	report.Policies = len(cat.Policies)
	report.Sliders = len(cat.Sliders)
	report.Simulation = len(cat.Simulation)
	report.Dilemmas = len(cat.Dilemmas)
	report.Duration = time.Since(start)

	l.logger.Info("catalog loaded",
		"source", report.Source,
		"policies", report.Policies,
		"sliders", report.Sliders,
		"simulation", report.Simulation,
		"dilemmas", report.Dilemmas,
		"warnings", len(report.Warnings),
		"duration_ms", report.Duration.Milliseconds(),
	)

	return cat, report, nil
}

func (l *Loader) fetchTable(ctx context.Context, p string, report *Report) (string, bool) {
	text, err := l.src.FetchText(ctx, p)
	if err != nil {
		report.warn(l.logger, p, err)
		return "", false
	}
	return text, true
}

// LoadPolicies reads and parses the policy table only.
func (l *Loader) LoadPolicies(ctx context.Context) ([]core.Policy, error) {
	text, err := l.src.FetchText(ctx, l.policiesPath)
	if err != nil {
		return nil, err
	}
	return table.ParsePolicies(text), nil
}

// LoadSliders reads and parses the slider table only.
func (l *Loader) LoadSliders(ctx context.Context) ([]core.Slider, error) {
	text, err := l.src.FetchText(ctx, l.slidersPath)
	if err != nil {
		return nil, err
	}
	return table.ParseSliders(text), nil
}

// LoadSimulation reads and parses the simulation table only.
func (l *Loader) LoadSimulation(ctx context.Context) ([]core.SimulationVariable, error) {
	text, err := l.src.FetchText(ctx, l.simulationPath)
	if err != nil {
		return nil, err
	}
	return table.ParseSimulation(text), nil
}

// LoadDilemmas lists and parses every dilemma file. Files are parsed in
// parallel and returned sorted by file name.
func (l *Loader) LoadDilemmas(ctx context.Context) ([]core.Dilemma, *Report, error) {
	report := &Report{Source: l.src.String()}
	dilemmas, err := l.loadDilemmas(ctx, report)
	report.Dilemmas = len(dilemmas)
	return dilemmas, report, err
}

func (l *Loader) loadDilemmas(ctx context.Context, report *Report) ([]core.Dilemma, error) {
	names, err := l.src.List(ctx, l.dilemmasDir, dilemma.FileExt)
	if err != nil {
		l.logger.Error("failed to list dilemmas", "dir", l.dilemmasDir, "error", err)
		return nil, fmt.Errorf("%w: list %s: %w", ErrSourceUnavailable, l.dilemmasDir, err)
	}
	if len(names) == 0 {
		l.logger.Debug("dilemma listing empty, using fallback list", "count", len(l.fallback))
		names = append([]string(nil), l.fallback...)
		sort.Strings(names)
		report.Fallback = true
	}

	results := make([]*core.Dilemma, len(names))
	errs := make([]error, len(names))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(l.workers)
	for i, name := range names {
		eg.Go(func() error {
			text, err := l.src.FetchText(egctx, path.Join(l.dilemmasDir, name))
			if err != nil {
				errs[i] = err
				return nil
			}
			d := dilemma.Parse(text, dilemma.IDFromFilename(name))
			results[i] = &d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]core.Dilemma, 0, len(names))
	for i, name := range names {
		if errs[i] != nil {
			report.warn(l.logger, path.Join(l.dilemmasDir, name), errs[i])
			continue
		}
		out = append(out, *results[i])
	}
	return out, nil
}
