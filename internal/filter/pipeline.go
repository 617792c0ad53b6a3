package filter

import (
	"fmt"
	"log/slog"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/pacofilter/internal/apperr"
	"github.com/starford/pacofilter/internal/document"
	"github.com/starford/pacofilter/internal/models"
)

const (
	keyNetworkInstance = "network-instance"
	keyInterface       = "interface"
	keyBfd             = "bfd"
	keySubinterface    = "subinterface"
	keyName            = "name"
	keyID              = "id"
	keyIndex           = "index"
)

// Report summarizes what a run kept.
type Report struct {
	InstancesKept    int
	InstancesDropped int
	InUse            int
	BfdKept          int
	BfdDropped       int
	InterfacesIn     int
	InterfacesOut    int
}

// Pipeline applies a Policy to configuration documents.
type Pipeline struct {
	policy Policy
	logger *slog.Logger
}

// New creates a Pipeline. A nil logger falls back to slog.Default.
func New(policy Policy, logger *slog.Logger) *Pipeline {
	if policy.Consolidation == "" {
		policy.Consolidation = PerReference
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{policy: policy, logger: logger}
}

// Apply runs every stage over doc in place. The required sections are
// checked up front so a failure never leaves doc partly pruned by an
// earlier stage.
func (p *Pipeline) Apply(doc *document.Object) (Report, error) {
	var report Report

	if err := requireSections(doc); err != nil {
		return report, err
	}

	before := sectionLen(doc, keyNetworkInstance)
	if err := p.FilterInstances(doc); err != nil {
		return report, fmt.Errorf("filter network instances: %w", err)
	}
	report.InstancesKept = sectionLen(doc, keyNetworkInstance)
	report.InstancesDropped = before - report.InstancesKept
	p.logger.Debug("network instances filtered",
		slog.Int("kept", report.InstancesKept),
		slog.Int("dropped", report.InstancesDropped))

	inUse, err := p.DeduceInUse(doc)
	if err != nil {
		return report, fmt.Errorf("deduce in-use interfaces: %w", err)
	}
	report.InUse = inUse.Len()
	p.logger.Debug("in-use interfaces deduced", slog.Int("count", report.InUse))

	before = sectionLen(doc, keyBfd, keySubinterface)
	if err := PruneBfd(doc, inUse); err != nil {
		return report, fmt.Errorf("prune bfd: %w", err)
	}
	report.BfdKept = sectionLen(doc, keyBfd, keySubinterface)
	report.BfdDropped = before - report.BfdKept
	p.logger.Debug("bfd pruned", slog.Int("kept", report.BfdKept), slog.Int("dropped", report.BfdDropped))

	report.InterfacesIn = sectionLen(doc, keyInterface)
	if err := p.PruneInterfaces(doc, inUse); err != nil {
		return report, fmt.Errorf("prune interfaces: %w", err)
	}
	report.InterfacesOut = sectionLen(doc, keyInterface)
	p.logger.Debug("interfaces pruned",
		slog.Int("in", report.InterfacesIn),
		slog.Int("out", report.InterfacesOut),
		slog.String("consolidation", string(p.policy.Consolidation)))

	return report, nil
}

// FilterInstances keeps the network instances whose name contains one of
// the policy's substrings, preserving their order.
func (p *Pipeline) FilterInstances(doc *document.Object) error {
	items, err := document.LookupArray(doc, keyNetworkInstance)
	if err != nil {
		return err
	}
	instances, err := document.Records(items, keyNetworkInstance)
	if err != nil {
		return err
	}

	kept := make([]document.Value, 0, len(items))
	for i, ni := range instances {
		name, err := document.LookupString(ni, keyName)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", keyNetworkInstance, i, err)
		}
		if p.policy.keepInstance(name) {
			kept = append(kept, items[i])
		}
	}
	doc.Set(keyNetworkInstance, document.ArrayValue(kept))
	return nil
}

// DeduceInUse collects the interface units referenced by the remaining
// network instances. Each distinct reference string is parsed once; the
// policy's UsageFilter is then applied to the interface name.
func (p *Pipeline) DeduceInUse(doc *document.Object) (*models.RefSet, error) {
	items, err := document.LookupArray(doc, keyNetworkInstance)
	if err != nil {
		return nil, err
	}
	instances, err := document.Records(items, keyNetworkInstance)
	if err != nil {
		return nil, err
	}

	inUse := models.NewRefSet()
	seen := make(map[string]struct{})
	for i, ni := range instances {
		refs, err := optionalRecords(ni, keyInterface)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", keyNetworkInstance, i, err)
		}
		for j, entry := range refs {
			raw, err := document.LookupString(entry, keyName)
			if err != nil {
				return nil, fmt.Errorf("%s[%d].%s[%d]: %w", keyNetworkInstance, i, keyInterface, j, err)
			}
			if _, dup := seen[raw]; dup {
				continue
			}
			seen[raw] = struct{}{}

			ref, err := models.ParseInterfaceRef(raw)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", keyNetworkInstance, i, err)
			}
			if p.policy.UsageFilter != nil && !p.policy.UsageFilter(ref.Name()) {
				continue
			}
			inUse.Add(ref)
		}
	}
	return inUse, nil
}

// PruneBfd keeps the BFD subinterface bindings whose id is the canonical
// form of an in-use reference. Input order is preserved.
func PruneBfd(doc *document.Object, inUse *models.RefSet) error {
	items, err := document.LookupArray(doc, keyBfd, keySubinterface)
	if err != nil {
		return err
	}
	bindings, err := document.Records(items, keyBfd+"."+keySubinterface)
	if err != nil {
		return err
	}

	kept := make([]document.Value, 0, len(items))
	for i, b := range bindings {
		id, err := document.LookupString(b, keyID)
		if err != nil {
			return fmt.Errorf("%s.%s[%d]: %w", keyBfd, keySubinterface, i, err)
		}
		if inUse.ContainsID(id) {
			kept = append(kept, items[i])
		}
	}
	return document.Replace(doc, document.ArrayValue(kept), keyBfd, keySubinterface)
}

// PruneInterfaces rebuilds the interface section from the in-use references
// according to the policy's Consolidation. Records are deep copies; the
// original records are left untouched. References to interfaces missing
// from the document contribute nothing.
func (p *Pipeline) PruneInterfaces(doc *document.Object, inUse *models.RefSet) error {
	items, err := document.LookupArray(doc, keyInterface)
	if err != nil {
		return err
	}
	records, err := document.Records(items, keyInterface)
	if err != nil {
		return err
	}
	names := make([]string, len(records))
	for i, rec := range records {
		if names[i], err = document.LookupString(rec, keyName); err != nil {
			return fmt.Errorf("%s[%d]: %w", keyInterface, i, err)
		}
	}

	var out []document.Value
	switch p.policy.Consolidation {
	case ByName:
		out, err = p.consolidateByName(records, names, inUse)
	default:
		out, err = perReference(records, names, inUse)
	}
	if err != nil {
		return err
	}
	doc.Set(keyInterface, document.ArrayValue(out))
	return nil
}

// perReference emits one record per reference. The first record carrying
// the name is the template; matching units are gathered from every record
// with that name so that re-running over its own output is stable.
func perReference(records []*document.Object, names []string, inUse *models.RefSet) ([]document.Value, error) {
	var out []document.Value
	for _, ref := range inUse.Refs() {
		var template *document.Object
		var subs []document.Value
		unit := map[int]struct{}{ref.Unit(): {}}
		for i, rec := range records {
			if names[i] != ref.Name() {
				continue
			}
			if template == nil {
				template = rec
			}
			matched, err := matchingSubinterfaces(rec, unit)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", keyInterface, names[i], err)
			}
			subs = append(subs, matched...)
		}
		if template == nil {
			continue
		}
		out = append(out, document.ObjectValue(trimmedCopy(template, subs)))
	}
	return out, nil
}

// consolidateByName emits one record per name in first-seen order.
// KeepWhole interfaces are always emitted; others only when referenced.
func (p *Pipeline) consolidateByName(records []*document.Object, names []string, inUse *models.RefSet) ([]document.Value, error) {
	result := orderedmap.New[string, *document.Object]()
	for i, rec := range records {
		name := names[i]
		units := inUse.Units(name)
		keepWhole := p.policy.KeepWhole != nil && p.policy.KeepWhole(name)
		if !keepWhole && len(units) == 0 {
			continue
		}

		matched, err := matchingSubinterfaces(rec, units)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", keyInterface, name, err)
		}
		if existing, ok := result.Get(name); ok {
			appendSubinterfaces(existing, matched)
			continue
		}
		result.Set(name, trimmedCopy(rec, matched))
	}

	out := make([]document.Value, 0, result.Len())
	for pair := result.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, document.ObjectValue(pair.Value))
	}
	return out, nil
}

// matchingSubinterfaces returns copies of rec's subinterfaces whose index
// is in units, in their original order.
func matchingSubinterfaces(rec *document.Object, units map[int]struct{}) ([]document.Value, error) {
	if len(units) == 0 {
		return nil, nil
	}
	subs, err := optionalRecords(rec, keySubinterface)
	if err != nil {
		return nil, err
	}

	var out []document.Value
	for i, sub := range subs {
		raw, ok := sub.Get(keyIndex)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d].%s", apperr.ErrMissingExpectedKey, keySubinterface, i, keyIndex)
		}
		index, ok := raw.AsInt()
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d].%s is not an integer", apperr.ErrMalformedInput, keySubinterface, i, keyIndex)
		}
		if _, want := units[int(index)]; want {
			out = append(out, document.ObjectValue(document.CloneObject(sub)))
		}
	}
	return out, nil
}

func trimmedCopy(rec *document.Object, subs []document.Value) *document.Object {
	cp := document.CloneObject(rec)
	cp.Set(keySubinterface, document.ArrayValue(subs))
	return cp
}

func appendSubinterfaces(rec *document.Object, extra []document.Value) {
	if len(extra) == 0 {
		return
	}
	cur, _ := rec.Get(keySubinterface)
	items, _ := cur.AsArray()
	merged := make([]document.Value, 0, len(items)+len(extra))
	merged = append(merged, items...)
	merged = append(merged, extra...)
	rec.Set(keySubinterface, document.ArrayValue(merged))
}

// optionalRecords returns the objects in obj[key], or nothing when the key
// is absent.
func optionalRecords(obj *document.Object, key string) ([]*document.Object, error) {
	if _, ok := obj.Get(key); !ok {
		return nil, nil
	}
	items, err := document.LookupArray(obj, key)
	if err != nil {
		return nil, err
	}
	return document.Records(items, key)
}

func requireSections(doc *document.Object) error {
	if _, err := document.LookupArray(doc, keyNetworkInstance); err != nil {
		return err
	}
	if _, err := document.LookupArray(doc, keyInterface); err != nil {
		return err
	}
	_, err := document.LookupArray(doc, keyBfd, keySubinterface)
	return err
}

func sectionLen(doc *document.Object, path ...string) int {
	items, err := document.LookupArray(doc, path...)
	if err != nil {
		return 0
	}
	return len(items)
}
