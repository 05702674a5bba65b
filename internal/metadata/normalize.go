package metadata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Options carries the per-call inputs of normalization that do not belong to
// the schema: configured default values and the clock used for computed
// defaults. The zero value is usable.
type Options struct {
	// Defaults maps field name to its configured default value, typically
	// resolved from the environment.
	Defaults map[string]any

	// IDPrefix and IDSeparator parameterize the computed unique document
	// identifier (for example "EB" and ":" yield "EB:1735689600").
	IDPrefix    string
	IDSeparator string

	// Now is the clock used for computed defaults. Defaults to time.Now.
	// Tests inject a fixed clock to make normalization reproducible.
	Now func() time.Time
}

func (o Options) defaultFor(field string) any {
	if v, ok := o.Defaults[field]; ok {
		return v
	}
	return ""
}

func (o Options) computedID() string {
	now := o.Now
	if now == nil {
		now = time.Now
	}
	return o.IDPrefix + o.IDSeparator + strconv.FormatInt(now().Unix(), 10)
}

// Normalize runs the validation-and-defaulting pipeline over a raw metadata
// mapping. It never fails: every problem becomes a diagnostic and the
// returned records always form a usable (possibly partial) result.
//
// The phases run in a fixed order; later phases assume earlier phases have
// already cleared invalid values:
//
//  1. unknown-field detection
//  2. record seeding
//  3. boolean cleaning
//  4. type validation
//  5. structural validation
//  6. custom-shape validation
//  7. relational resolution
//  8. default and cascade application
//  9. finalization of presentation forms
func Normalize(raw map[string]any, schema *Schema, catalogs *Catalogs, opts Options) (Records, upstilatex.Diagnostics) {
	p := &pipeline{
		raw:      raw,
		schema:   schema,
		catalogs: catalogs,
		opts:     opts,
		records:  Records{},
	}

	p.detectUnknownFields()
	p.seedRecords()
	p.cleanBooleans()
	p.validateTypes()
	p.validateStructure()
	p.validateCustomShapes()
	p.resolveRelations()
	p.applyDefaults()
	p.finalize()

	return p.records, p.diags
}

// pipeline holds the mutable state threaded through the phases.
type pipeline struct {
	raw      map[string]any
	schema   *Schema
	catalogs *Catalogs
	opts     Options
	records  Records
	diags    upstilatex.Diagnostics
}

func (p *pipeline) warn(format string, args ...any) {
	p.diags = p.diags.Add(upstilatex.SeverityWarning, fmt.Sprintf(format, args...))
}

func (p *pipeline) errorf(format string, args ...any) {
	p.diags = p.diags.Add(upstilatex.SeverityError, fmt.Sprintf(format, args...))
}

func (p *pipeline) infof(format string, args ...any) {
	p.diags = p.diags.Add(upstilatex.SeverityInfo, fmt.Sprintf(format, args...))
}

// detectUnknownFields reports raw keys absent from the schema. They
// contribute nothing further to the result.
func (p *pipeline) detectUnknownFields() {
	unknown := make([]string, 0)
	for key := range p.raw {
		if !p.schema.Has(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		p.warn("unknown field: %s", key)
	}
}

// seedRecords creates one record per schema field that is present in the raw
// data or carries a default policy. Absent fields with a default policy are
// immediately tagged default:unset; everything else stays untagged until
// finalization resolves it to explicit.
func (p *pipeline) seedRecords() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		value, present := p.raw[name]
		if !present && rule.Default == DefaultNone {
			continue
		}

		rec := &Record{
			Field:       name,
			Label:       rule.Label,
			Description: rule.Description,
			present:     present,
		}
		if present {
			rec.RawValue = value
			rec.InitialValue = value
		} else {
			rec.RawValue = ""
			rec.InitialValue = ""
			rec.Provenance = upstilatex.ProvenanceDefault.WithCause(upstilatex.CauseUnset)
		}
		p.records[name] = rec
	}
}

// cleanBooleans coerces truthy/falsy scalar spellings on fields declaring
// clean_bool but leaves unrecognized values for type validation to reject.
func (p *pipeline) cleanBooleans() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil || !rule.CleanBool || !rec.present {
			continue
		}
		if b, ok := coerceBool(rec.RawValue); ok {
			rec.RawValue = b
		}
	}
}

// validateTypes checks every present record against the field's accepted
// types, branching to default-or-ignore on mismatch.
func (p *pipeline) validateTypes() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil || !rec.present || rec.Provenance != "" {
			continue
		}
		if MatchesAny(rec.RawValue, rule.Types) {
			continue
		}
		p.reject(rec, rule, upstilatex.CauseWrongType,
			fmt.Sprintf("'%s' should be of type %s", name, typeList(rule.Types)))
	}
}

// validateStructure evaluates the declared structural rules of every record
// whose value is a mapping or a list and that passed type validation.
func (p *pipeline) validateStructure() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil || !rec.present || rec.Provenance != "" {
			continue
		}
		switch rec.RawValue.(type) {
		case map[string]any, []any:
		default:
			continue
		}

		for i := range rule.Rules {
			if reason := p.checkRule(name, &rule.Rules[i], rec.RawValue); reason != "" {
				p.reject(rec, rule, upstilatex.CauseValidation, reason)
				break
			}
		}
	}
}

// checkRule evaluates one structural rule, returning "" on success or a
// human-readable reason on violation. The switch is exhaustive over RuleKind.
func (p *pipeline) checkRule(field string, rule *StructuralRule, value any) string {
	switch rule.Kind {
	case RuleAllowedKeys:
		m, ok := value.(map[string]any)
		if !ok {
			return ""
		}
		if extra := extraKeys(m, rule.Keys); len(extra) > 0 {
			return fmt.Sprintf("keys not allowed for '%s': %s", field, strings.Join(extra, ", "))
		}

	case RuleAllowedKeysFromCatalog:
		m, ok := value.(map[string]any)
		if !ok {
			return ""
		}
		if extra := extraKeys(m, p.catalogs.Keys(rule.Catalog)); len(extra) > 0 {
			return fmt.Sprintf("keys not allowed for '%s': %s", field, strings.Join(extra, ", "))
		}

	case RuleKeyTypes:
		m, ok := value.(map[string]any)
		if !ok {
			return ""
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			expected, declared := rule.KeyTypes[k]
			if !declared {
				continue
			}
			if !expected.Matches(m[k]) {
				return fmt.Sprintf("'%s.%s' should be of type %s", field, k, expected)
			}
		}

	case RuleCatalogMembership:
		list, ok := value.([]any)
		if !ok {
			return ""
		}
		for _, elem := range list {
			key := stringify(elem)
			if _, found := p.catalogs.Lookup(rule.Catalog, key); !found {
				return fmt.Sprintf("value not allowed for '%s': %s", field, key)
			}
		}

	case RuleSumEquals:
		list, ok := value.([]any)
		if !ok {
			return ""
		}
		var sum float64
		for _, elem := range list {
			n, numeric := asFloat(elem)
			if !numeric {
				return fmt.Sprintf("'%s' must contain only numbers", field)
			}
			sum += n
		}
		if !floatEquals(sum, rule.Target) {
			return fmt.Sprintf("values of '%s' must sum to %g, got %g", field, rule.Target, sum)
		}

	case RuleMax:
		list, ok := value.([]any)
		if !ok {
			return ""
		}
		for _, elem := range list {
			if n, numeric := asFloat(elem); numeric && n > rule.Limit {
				return fmt.Sprintf("value of '%s' above maximum %g: %g", field, rule.Limit, n)
			}
		}

	case RuleCompetencyCodes:
		m, ok := value.(map[string]any)
		if !ok {
			return ""
		}
		return p.checkCompetencyCodes(field, m)
	}
	return ""
}

// checkCompetencyCodes walks the two-level track -> programme -> codes
// mapping, verifying every level against the competency catalog.
func (p *pipeline) checkCompetencyCodes(field string, m map[string]any) string {
	tracks := make([]string, 0, len(m))
	for track := range m {
		tracks = append(tracks, track)
	}
	sort.Strings(tracks)

	for _, track := range tracks {
		programmes, ok := p.catalogs.Competences[track]
		if !ok {
			return fmt.Sprintf("unknown track in '%s': %s", field, track)
		}
		byProgramme, ok := m[track].(map[string]any)
		if !ok {
			return fmt.Sprintf("'%s.%s' should be a mapping of programme to code list", field, track)
		}

		names := make([]string, 0, len(byProgramme))
		for programme := range byProgramme {
			names = append(names, programme)
		}
		sort.Strings(names)

		for _, programme := range names {
			codes, ok := programmes[programme]
			if !ok {
				return fmt.Sprintf("unknown programme in '%s.%s': %s", field, track, programme)
			}
			declared, ok := byProgramme[programme].([]any)
			if !ok {
				return fmt.Sprintf("'%s.%s.%s' should be a list of codes", field, track, programme)
			}
			for _, code := range declared {
				if !containsString(codes, stringify(code)) {
					return fmt.Sprintf("unknown competency code in '%s.%s.%s': %v", field, track, programme, code)
				}
			}
		}
	}
	return ""
}

// validateCustomShapes enforces exact key-set equality and per-key types for
// fields declaring a custom shape whose value is a free-form mapping.
func (p *pipeline) validateCustomShapes() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil || !rec.present || rec.Provenance != "" || len(rule.CustomShape) == 0 {
			continue
		}
		m, ok := rec.RawValue.(map[string]any)
		if !ok {
			continue
		}

		if !sameKeySet(m, rule.CustomShape) {
			p.reject(rec, rule, upstilatex.CauseBadCustomShape,
				fmt.Sprintf("custom declaration for '%s' does not match the declared shape", name))
			continue
		}

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !rule.CustomShape[k].Matches(m[k]) {
				p.reject(rec, rule, upstilatex.CauseValidation,
					fmt.Sprintf("'%s.%s' should be of type %s", name, k, rule.CustomShape[k]))
				break
			}
		}
	}
}

// resolveRelations verifies scalar values of relational fields against the
// same-named catalog. Unknown keys branch to default-or-ignore unless the
// field explicitly permits custom values, which are kept as informational.
func (p *pipeline) resolveRelations() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil || !rec.present || rec.Provenance != "" || !rule.Join {
			continue
		}
		if _, isMapping := rec.RawValue.(map[string]any); isMapping {
			continue
		}
		key := stringify(rec.RawValue)
		if key == "" {
			continue
		}
		if _, found := p.catalogs.Lookup(name, key); found {
			continue
		}

		if rule.CustomAllowed {
			rec.Hint = upstilatex.DisplayHintInformational
			p.infof("custom value kept for '%s': %s", name, key)
			continue
		}
		p.reject(rec, rule, upstilatex.CauseUnknownKey,
			fmt.Sprintf("unknown value for '%s': '%s'", name, key))
	}
}

// applyDefaults resolves every record still lacking a concrete value.
// Cascade groups run first so that derived steps observe their upstream
// fields' final values; plain env and computed policies follow.
func (p *pipeline) applyDefaults() {
	p.resolveCascades()

	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil || rec.Provenance.Base() != upstilatex.ProvenanceDefault {
			continue
		}
		switch rule.Default {
		case DefaultEnv:
			rec.RawValue = p.opts.defaultFor(name)
			if rec.Provenance.Cause() == upstilatex.CauseUnset {
				p.warn("'%s' missing; using default value", name)
			}
		case DefaultComputed:
			rec.RawValue = p.opts.computedID()
		case DefaultCascade, DefaultNone:
			// Cascades were resolved above; none never reaches here.
		}
	}
}

// finalize computes the presentation forms and resolves untouched records to
// explicit provenance.
func (p *pipeline) finalize() {
	for _, name := range p.schema.Order() {
		rule := p.schema.Field(name)
		rec := p.records[name]
		if rec == nil {
			continue
		}

		if rule.Join {
			switch v := rec.RawValue.(type) {
			case map[string]any:
				// A permitted custom declaration carries its own display forms.
				rec.Value = v["nom"]
				rec.Display = firstNonEmpty(v["affichage"], rec.Value)
				rec.ShortForm = firstNonEmpty(v["initiales"], rec.Value)
			default:
				if entry, found := p.catalogs.Lookup(name, stringify(rec.RawValue)); found {
					rec.Value = entry.Nom
					rec.Display = entry.Affichage
					rec.ShortForm = entry.Initiales
				}
			}
		}

		rec.Value = firstNonEmpty(rec.Value, rec.RawValue)
		rec.Display = firstNonEmpty(rec.Display, rec.Value)
		rec.ShortForm = firstNonEmpty(rec.ShortForm, rec.Display)

		if rec.Provenance == "" {
			rec.Provenance = upstilatex.ProvenanceExplicit
		}
	}
}

// reject implements the default-or-ignore branching shared by the
// validation phases: clear the value, tag the provenance with the cause and
// emit a warning (recoverable) or error (ignored) diagnostic.
func (p *pipeline) reject(rec *Record, rule *FieldRule, cause, reason string) {
	rec.RawValue = ""
	if rule.Default != DefaultNone {
		rec.Provenance = upstilatex.ProvenanceDefault.WithCause(cause)
		p.warn("%s; using default value", reason)
		return
	}
	rec.Provenance = upstilatex.ProvenanceIgnored.WithCause(cause)
	p.errorf("%s; value ignored", reason)
}

// Helpers shared by the phases.

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		return t != 0, true
	case int64:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	diff := a - b
	return diff < floatTolerance && diff > -floatTolerance
}

func extraKeys(m map[string]any, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = true
	}
	var extra []string
	for k := range m {
		if !allowedSet[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func sameKeySet(m map[string]any, shape map[string]ValueType) bool {
	if len(m) != len(shape) {
		return false
	}
	for k := range m {
		if _, ok := shape[k]; !ok {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, elem := range list {
		if elem == s {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}

func typeList(types []ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, " or ")
}
