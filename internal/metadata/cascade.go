package metadata

import (
	"sort"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// resolveCascades resolves every declared cascade group. Steps run in
// declaration order, so a derived step always observes the final value of
// its upstream field.
//
// A derived value is tagged deducted only when the upstream value is itself
// trustworthy (explicit or deducted); a chain rooted in a default stays
// default all the way down.
func (p *pipeline) resolveCascades() {
	groups := make([]string, 0, len(p.schema.Cascades()))
	for name := range p.schema.Cascades() {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	for _, group := range groups {
		for _, step := range p.schema.Cascades()[group] {
			p.resolveCascadeStep(step)
		}
	}
}

func (p *pipeline) resolveCascadeStep(step CascadeStep) {
	rec := p.records[step.Field]
	if rec == nil {
		return
	}
	// An explicit value that survived validation wins over any derivation.
	if rec.Provenance == "" && stringify(rec.RawValue) != "" {
		return
	}

	if step.From == "" {
		rec.RawValue = p.opts.defaultFor(step.Field)
		if rec.Provenance.Cause() == upstilatex.CauseUnset {
			p.warn("'%s' missing; using default value", step.Field)
		}
		return
	}

	parent := p.records[step.From]
	if parent == nil {
		return
	}

	parentKey := stringify(parent.RawValue)
	entry, found := p.catalogs.Lookup(step.From, parentKey)
	if !found {
		entry, found = p.catalogs.Lookup(step.From, stringify(p.opts.defaultFor(step.From)))
	}
	if found {
		rec.RawValue = entry.Attr(step.Attr)
	}

	// A corrected record keeps its cause; otherwise the provenance follows
	// the upstream field.
	if cause := rec.Provenance.Cause(); cause != "" && cause != upstilatex.CauseUnset {
		return
	}
	if parent.Provenance == "" || parent.Provenance.Base() == upstilatex.ProvenanceDeducted {
		rec.Provenance = upstilatex.ProvenanceDeducted
	} else {
		rec.Provenance = upstilatex.ProvenanceDefault
	}
}
