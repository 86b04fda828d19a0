package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of a materialized configuration.
const configSchema = `{
  "type": "object",
  "required": ["command", "levels", "groups"],
  "properties": {
    "command": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "featuresFlag": {"type": "string", "pattern": "^\\S+$"},
    "levelFlag": {"type": "string", "pattern": "^\\S+$"},
    "modeToken": {"type": "string"},
    "replaceDefaultFeatures": {"type": "boolean"},
    "workDir": {"type": "string"},
    "resultFile": {"type": "string", "minLength": 1},
    "outputDir": {"type": "string"},
    "variant": {"enum": ["flat", "flat-mean", "per-level", "per-level-stats"]},
    "levels": {
      "type": "array",
      "minItems": 1,
      "uniqueItems": true,
      "items": {"type": "string", "pattern": "^\\S+$"}
    },
    "groups": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "pattern": "^[A-Za-z0-9._-]+$"},
          "configurations": {
            "type": ["array", "null"],
            "items": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    },
    "defaultGroup": {"type": "string"},
    "expectedMetrics": {"type": "array", "uniqueItems": true, "items": {"type": "string", "minLength": 1}},
    "metricsFile": {"type": "string"},
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"}
  }
}`

var configSchemaLoader = gojsonschema.NewStringLoader(configSchema)

// Validate checks the configuration against its schema and then the rules
// the schema cannot express.
func (c Config) Validate() error {
	result, err := gojsonschema.Validate(configSchemaLoader, gojsonschema.NewGoLoader(c))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("config does not match schema: %s", strings.Join(msgs, "; "))
	}

	var errs []error
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if seen[g.Name] {
			errs = append(errs, fmt.Errorf("group %q is defined more than once", g.Name))
		}
		seen[g.Name] = true

		keys := make(map[string]bool, len(g.Configurations))
		for _, cfg := range g.Configurations {
			if err := cfg.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("group %q: %w", g.Name, err))
				continue
			}
			if keys[cfg.Key()] {
				errs = append(errs, fmt.Errorf("group %q lists configuration %s twice", g.Name, cfg.Label()))
			}
			keys[cfg.Key()] = true
		}
	}
	if c.DefaultGroup != "" && !seen[c.DefaultGroup] {
		errs = append(errs, fmt.Errorf("defaultGroup %q is not a defined group (known: %s)", c.DefaultGroup, strings.Join(c.Groups.Names(), ", ")))
	}
	if _, err := c.SweepVariant(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
