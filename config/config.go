// Package config loads the flat key=value properties file that governs a
// comparison run.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Properties file keys. Dot notation, since godotenv restricts key names to
// letters, digits, '_' and '.'.
const (
	keyIgnoreAttributes        = "ignore.attributes"
	keyIgnoreAttributePrefixes = "ignore.attribute.prefixes"
	keyMatchAttribute          = "match.attribute"
	keyGenerateDeletes         = "generate.deletes"
)

// Config is the comparison behavior read from the properties file. The
// snapshot paths and output directory come from the command line instead.
type Config struct {
	// Attributes stripped from every entry before comparison.
	IgnoreAttributes        []string
	IgnoreAttributePrefixes []string

	// Attribute names used for matching instead of the DN. Both empty means
	// DN matching. A single configured name is used for both sides.
	MatchAttributeLeft  string
	MatchAttributeRight string

	// GenerateDeletes emits delete change records for right-side entries
	// with no match. Only valid together with MatchAttribute*.
	GenerateDeletes bool
}

// LoadProperties reads and validates a properties file, e.g.
//
//	ignore.attributes=lastLogon,logonTime
//	ignore.attribute.prefixes=msDS-
//	match.attribute=workforceID
//	generate.deletes=true
//
// match.attribute takes either one name, used on both sides, or
// "leftName,rightName".
func LoadProperties(path string) (Config, error) {
	props, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("load properties %s: %w", path, err)
	}

	cfg := Config{
		IgnoreAttributes:        splitList(props[keyIgnoreAttributes]),
		IgnoreAttributePrefixes: splitList(props[keyIgnoreAttributePrefixes]),
	}

	if v := strings.TrimSpace(props[keyMatchAttribute]); v != "" {
		names := strings.SplitN(v, ",", 2)
		cfg.MatchAttributeLeft = strings.TrimSpace(names[0])
		cfg.MatchAttributeRight = cfg.MatchAttributeLeft
		if len(names) == 2 {
			cfg.MatchAttributeRight = strings.TrimSpace(names[1])
		}
	}

	if v := strings.TrimSpace(props[keyGenerateDeletes]); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("property %s: %w", keyGenerateDeletes, err)
		}
		cfg.GenerateDeletes = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that must stop the run before any task is
// scheduled.
func (c Config) Validate() error {
	matching := c.MatchAttributeLeft != "" || c.MatchAttributeRight != ""
	if matching && (c.MatchAttributeLeft == "" || c.MatchAttributeRight == "") {
		return errors.New("match-attribute names must not be empty")
	}
	if c.GenerateDeletes && !matching {
		return errors.New("generate-deletes requires match-attribute")
	}
	return nil
}

func splitList(v string) []string {
	var list []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	return list
}
