package main

import (
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// recordFilter narrows the parsed records before scoring. method is a
// substring match on the function name; where is a Starlark boolean
// expression over name, pct, calls, self and cumulative.
type recordFilter struct {
	method string
	where  string
}

func newRecordFilter(method, where string) (*recordFilter, error) {
	f := &recordFilter{method: method, where: where}
	if where != "" {
		// Compile only: syntax and unknown names fail here, evaluation
		// errors belong to the record that caused them.
		if _, err := starlark.ExprFunc("--where", where, whereEnv(profileRecord{})); err != nil {
			return nil, errors.Wrapf(err, "--where %q", where)
		}
	}
	return f, nil
}

func (f *recordFilter) active() bool {
	return f != nil && (f.method != "" || f.where != "")
}

func (f *recordFilter) apply(records []profileRecord) ([]profileRecord, error) {
	if !f.active() {
		return records, nil
	}
	var out []profileRecord
	for _, r := range records {
		if f.method != "" && !matchesName(r.name, f.method) {
			continue
		}
		if f.where != "" {
			ok, err := f.eval(r)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// whereEnv exposes a record's columns to --where expressions.
func whereEnv(r profileRecord) starlark.StringDict {
	return starlark.StringDict{
		"name":       starlark.String(r.name),
		"pct":        starlark.Float(r.timePct),
		"calls":      starlark.MakeInt(r.calls),
		"self":       starlark.Float(r.selfSeconds),
		"cumulative": starlark.Float(r.cumSeconds),
	}
}

func (f *recordFilter) eval(r profileRecord) (bool, error) {
	thread := &starlark.Thread{Name: "where"}
	v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "--where", f.where, whereEnv(r))
	if err != nil {
		return false, errors.Wrapf(err, "--where %q", f.where)
	}
	return bool(v.Truth()), nil
}
