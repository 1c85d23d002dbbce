package engine

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/viewv/smartcommitcore/internal/changemodel"
	"github.com/viewv/smartcommitcore/internal/linkanalyzer"
)

// Config holds the engine's tuning parameters (spec §6): similarityThreshold,
// distanceThreshold, detectRefactorings, processNonJavaChanges (generalized
// here to processNonSourceChanges, since this engine is not Java-specific),
// and buildDeadlineSeconds.
type Config struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"gte=0,lte=1"`

	// DistanceThreshold and DetectRefactorings are reserved parameters
	// (spec §9 Open Question): validated but otherwise inert, since
	// refactoring detection is an explicit Non-goal. See New.
	DistanceThreshold  int  `yaml:"distance_threshold" validate:"gte=0,lte=3"`
	DetectRefactorings bool `yaml:"detect_refactorings"`

	// ProcessNonSourceChanges, when false, omits non-source hunks from
	// the output entirely rather than bucketing them into group0.
	ProcessNonSourceChanges bool `yaml:"process_non_source_changes"`

	BuildDeadlineSeconds int `yaml:"build_deadline_seconds" validate:"gte=1"`

	Classification changemodel.ClassificationConfig `yaml:"classification"`
}

// DefaultConfig returns the engine's default tuning, matching spec §6's
// defaults: a 0.618 similarity threshold, refactoring detection
// reserved/off, non-source changes processed into group0, and a 600s
// shared build deadline.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:     0.618,
		DistanceThreshold:       0,
		DetectRefactorings:      false,
		ProcessNonSourceChanges: true,
		BuildDeadlineSeconds:    600,
		Classification:          changemodel.DefaultClassificationConfig(),
	}
}

// Validate checks Config against its struct tags, mirroring the teacher's
// config.Config.Validate (internal/config/config.go).
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("engine: invalid config: %w", err)
	}
	return nil
}

func (c Config) buildDeadline() time.Duration {
	return time.Duration(c.BuildDeadlineSeconds) * time.Second
}

func (c Config) linkAnalyzerConfig() linkanalyzer.Config {
	return linkanalyzer.Config{SimilarityThreshold: c.SimilarityThreshold}
}
