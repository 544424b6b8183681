package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/testback-lab/testback/pkg/errors"
)

// CheckSchemaCompatibility checks if the engine version can evaluate a
// strategy document declaring the given schema version.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckSchemaCompatibility(engineVersion, schemaVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	schemaVersion = strings.TrimPrefix(schemaVersion, "v")

	// Skip the check for development builds.
	if engineVersion == "main" || schemaVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	schemaSemver, err := semver.NewVersion(schemaVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid schema version '%s'", schemaVersion)
	}

	if engineSemver.Major() != schemaSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: engine is %d.x.x but strategy declares schema %d.x.x",
			engineSemver.Major(), schemaSemver.Major())
	}

	if engineSemver.Minor() != schemaSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: engine is %d.%d.x but strategy declares schema %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			schemaSemver.Major(), schemaSemver.Minor())
	}

	// Patch versions can differ.
	return nil
}
