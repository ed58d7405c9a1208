// Package automation runs yaml scenarios of sorting runs without a terminal.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/convox/logger"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage"
)

var ErrUnknownPreset = errors.New("automation: unknown preset")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. The dataset comes from Values, else Preset,
// else Random values, else the algorithm's default.
type ScenarioStep struct {
	Algorithm string    `yaml:"algorithm"`
	Values    []float64 `yaml:"values"`
	Preset    string    `yaml:"preset"`
	Random    int       `yaml:"random"`
	Seed      int64     `yaml:"seed"`
	Speed     int       `yaml:"speed"`
	Paced     bool      `yaml:"paced"`
	Save      bool      `yaml:"save"`
}

type StepResult struct {
	Step      int
	Algorithm string
	Input     dataset.Dataset
	Result    *driver.Result
	RunID     string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s ScenarioStep) dataset() (dataset.Dataset, error) {
	switch {
	case s.Values != nil:
		return dataset.Dataset(s.Values).Clone(), nil
	case s.Preset != "":
		p := config.GetPreset(s.Algorithm, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, s.Preset)
		}
		return dataset.Dataset(p.Values).Clone(), nil
	case s.Random > 0:
		seed := s.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return input.RandomRange(rand.New(rand.NewSource(seed)), s.Random, s.Random, input.RandomLimit(s.Algorithm)), nil
	}
	return input.Default(s.Algorithm), nil
}

// Runner executes scenarios. Steps with Save set are written to Store when
// one is configured.
type Runner struct {
	Store *storage.Store
	Log   *logger.Logger
}

func NewRunner(store *storage.Store) *Runner {
	return &Runner{Store: store, Log: logger.NewWriter("ns=sortviz cn=automation", os.Stderr)}
}

// RunScenario executes all steps in a scenario
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log := r.Log.At("step").Namespace("scenario=%q step=%d/%d algorithm=%s", scenario.Name, i+1, len(scenario.Steps), step.Algorithm).Start()

		res, err := r.runStep(ctx, step)
		if err != nil {
			log.Error(err)
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Step = i + 1
		results = append(results, res)
		log.Successf("run=%q frames=%d", res.RunID, res.Result.Frames)
	}

	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step ScenarioStep) (StepResult, error) {
	values, err := step.dataset()
	if err != nil {
		return StepResult{}, err
	}

	speed := step.Speed
	if speed == 0 {
		speed = driver.DefaultSpeed
	}
	opts := []session.Option{
		session.WithAlgorithm(step.Algorithm),
		session.WithDataset(values),
		session.WithSpeed(speed),
		session.WithLogger(r.Log),
	}
	if !step.Paced {
		opts = append(opts, session.WithDriverOptions(driver.Instant()))
	}

	rec := storage.NewRecorder()
	res, started, err := session.New(opts...).Start(ctx, step.Algorithm, rec)
	if err != nil {
		return StepResult{}, err
	}
	if !started {
		res = &driver.Result{Final: values, Metrics: map[string]float64{}}
	}

	out := StepResult{Algorithm: step.Algorithm, Input: values, Result: res}
	if step.Save && r.Store != nil {
		out.RunID, err = r.Store.Save(step.Algorithm, driver.ClampSpeed(speed), values, res, rec.Frames)
		if err != nil {
			return StepResult{}, err
		}
	}
	return out, nil
}
