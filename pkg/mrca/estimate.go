package mrca

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// Estimate bounds the MRCA time of two taxa under one configuration.
type Estimate struct {
	TaxonA        string  `json:"from_id" yaml:"from_id" bson:"from_id"`
	TaxonB        string  `json:"to_id" yaml:"to_id" bson:"to_id"`
	Configuration string  `json:"configuration" yaml:"configuration" bson:"configuration"`
	Lower         float64 `json:"lower_bound" yaml:"lower_bound" bson:"lower_bound"`
	Upper         float64 `json:"upper_bound" yaml:"upper_bound" bson:"upper_bound"`
	Confidence    float64 `json:"confidence" yaml:"confidence" bson:"confidence"`
}

// Validate checks identifiers, the configuration key and the bounds.
func (e Estimate) Validate() error {
	if err := errors.ValidateTaxonID(e.TaxonA); err != nil {
		return err
	}
	if err := errors.ValidateTaxonID(e.TaxonB); err != nil {
		return err
	}
	if err := errors.ValidateConfigurationKey(e.Configuration); err != nil {
		return err
	}
	return errors.ValidateBounds(e.Lower, e.Upper, e.Confidence)
}

// Contains reports whether t lies within [Lower, Upper].
func (e Estimate) Contains(t float64) bool { return t >= e.Lower && t <= e.Upper }

// Width returns Upper - Lower.
func (e Estimate) Width() float64 { return e.Upper - e.Lower }

// sameBounds reports whether two estimates carry the same payload.
func (e Estimate) sameBounds(o Estimate) bool {
	return e.Lower == o.Lower && e.Upper == o.Upper && e.Confidence == o.Confidence
}

// Configuration describes the inference method behind a set of estimates.
type Configuration struct {
	Policy      string `json:"policy" yaml:"policy"`
	Differentia int    `json:"differentia" yaml:"differentia"`
	TargetBits  int    `json:"target_bits" yaml:"target_bits"`
}

// Key returns the estimate configuration key: the policy name followed by
// the differentia width and the target bit budget, for example
// "RecencyProportionalResolution164".
func (c Configuration) Key() string {
	return c.Policy + strconv.Itoa(c.Differentia) + strconv.Itoa(c.TargetBits)
}

// Treatment returns the treatment tag that marks reconstructed trees built
// with this configuration, for example
// "differentia=64+policy=RecencyProportionalResolution+target=4096".
func (c Configuration) Treatment() string {
	return fmt.Sprintf("differentia=%d+policy=%s+target=%d", c.Differentia, c.Policy, c.TargetBits)
}

// ConfigKey is shorthand for Configuration{...}.Key().
func ConfigKey(policy string, differentia, targetBits int) string {
	return Configuration{Policy: policy, Differentia: differentia, TargetBits: targetBits}.Key()
}

// ParseTreatment parses a treatment tag produced by [Configuration.Treatment].
// Fields may appear in any order.
func ParseTreatment(s string) (Configuration, error) {
	var c Configuration
	seen := 0
	for _, field := range strings.Split(s, "+") {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return c, errors.New(errors.ErrCodeInvalidFormat, "treatment %q: field %q is not key=value", s, field)
		}
		var err error
		switch k {
		case "policy":
			c.Policy = v
		case "differentia":
			c.Differentia, err = strconv.Atoi(v)
		case "target":
			c.TargetBits, err = strconv.Atoi(v)
		default:
			return c, errors.New(errors.ErrCodeInvalidFormat, "treatment %q: unknown field %q", s, k)
		}
		if err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidFormat, err, "treatment %q: field %s", s, k)
		}
		seen++
	}
	if seen != 3 || c.Policy == "" {
		return c, errors.New(errors.ErrCodeInvalidFormat, "treatment %q needs policy, differentia and target", s)
	}
	return c, nil
}
