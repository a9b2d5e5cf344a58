package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Provider exposes the dashboard tables.
type Provider interface {
	Dataset(ctx context.Context) (Dataset, error)
	Version() string
}

// StaticProvider serves a dataset fixed at construction.
type StaticProvider struct {
	data    Dataset
	version string
}

// NewStaticProvider validates ds and returns a provider for it. A row missing a
// required field fails here rather than at render time.
func NewStaticProvider(ds Dataset) (*StaticProvider, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(ds)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return &StaticProvider{data: ds.Clone(), version: hex.EncodeToString(sum[:6])}, nil
}

// MustSample returns a provider over the compiled-in data.
func MustSample() *StaticProvider {
	p, err := NewStaticProvider(Sample())
	if err != nil {
		panic(err)
	}
	return p
}

// Dataset returns a copy of the literal tables. It never fails.
func (p *StaticProvider) Dataset(ctx context.Context) (Dataset, error) {
	return p.data.Clone(), nil
}

// Version fingerprints the dataset contents.
func (p *StaticProvider) Version() string {
	return p.version
}

var (
	validate = newValidator()
	// Dataset.adoption[2].period
	namespaceRegex = regexp.MustCompile(`^Dataset\.(\w+)(?:\[(\d+)\])?(?:\.(\w+))?$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks every table for missing or out-of-range fields and reports
// the first failure as a *MalformedRowError.
func Validate(ds Dataset) error {
	err := validate.Struct(ds)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return toMalformed(fieldErrs[0])
}

func toMalformed(fe validator.FieldError) *MalformedRowError {
	out := &MalformedRowError{Series: fe.Namespace(), Row: -1, Reason: describeTag(fe)}
	m := namespaceRegex.FindStringSubmatch(fe.Namespace())
	if m == nil {
		return out
	}
	out.Series = m[1]
	if m[2] != "" {
		if idx, err := strconv.Atoi(m[2]); err == nil {
			out.Row = idx
		}
	}
	out.Field = m[3]
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " rows"
	case "len":
		return "needs exactly " + fe.Param() + " entries"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
