package relation

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// DefaultExcluded are accessor names that are never treated as relations.
var DefaultExcluded = []string{"Tokens", "Notifications", "ReadNotifications", "UnreadNotifications"}

// Detector finds relations among a model's methods.
type Detector struct {
	excluded map[string]bool
	logger   *slog.Logger
}

// NewDetector creates a detector. A nil excluded list selects DefaultExcluded;
// an empty non-nil list excludes nothing. If logger is nil, a discard logger is used.
func NewDetector(excluded []string, logger *slog.Logger) *Detector {
	if excluded == nil {
		excluded = DefaultExcluded
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Detector{excluded: make(map[string]bool, len(excluded)), logger: logger}
	for _, name := range excluded {
		d.excluded[name] = true
	}
	return d
}

// Detect returns the relations declared by model, in method order.
// Methods that fail or panic when invoked are skipped; the rest still count.
func (d *Detector) Detect(model string, methods []Method) []core.Relation {
	var rels []core.Relation
	for _, m := range methods {
		if !d.candidate(model, m) {
			continue
		}

		kind, related, ok, err := inspect(m)
		if err != nil {
			d.logger.Debug("skipping relation method",
				slog.String("model", model),
				slog.String("method", m.Name),
				slog.String("error", err.Error()))
			continue
		}
		if !ok {
			continue
		}

		multiplicity := core.MultiplicityOne
		if IsMany(kind) {
			multiplicity = core.MultiplicityMany
		}
		rels = append(rels, core.Relation{
			Name:         m.Name,
			Related:      ShortName(related),
			Multiplicity: multiplicity,
		})
	}
	return rels
}

func (d *Detector) candidate(model string, m Method) bool {
	if d.excluded[m.Name] {
		return false
	}
	return m.Exported && m.NumParams == 0 && m.DeclaredOn == model && m.Call != nil
}

// inspect calls the method and classifies its result, turning a panic in
// either step into an error.
func inspect(m Method) (kind, related string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			kind, related, ok = "", "", false
			err = fmt.Errorf("panic in %s: %v", m.Name, r)
		}
	}()
	v, err := m.Call()
	if err != nil {
		return "", "", false, err
	}
	kind, related, ok = Classify(v)
	return kind, related, ok, nil
}
