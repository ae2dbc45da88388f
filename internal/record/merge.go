// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

// Merge returns a new record holding base overlaid with override.
//
// For a key present in both, two mappings merge recursively and any other
// pairing takes the override value. Keys keep base order; keys that only
// appear in override are appended in override order. Neither input is
// modified and the result shares no mappings or sequences with them.
func Merge(base, override *Record) *Record {
	out := base.Clone()
	if out == nil {
		out = New()
	}
	if override == nil {
		return out
	}

	for _, key := range override.keys {
		overVal := override.values[key]
		baseVal, exists := out.values[key]
		if !exists {
			out.Set(key, cloneValue(overVal))
			continue
		}

		baseRec, baseIsRec := baseVal.(*Record)
		overRec, overIsRec := overVal.(*Record)
		if baseIsRec && overIsRec {
			out.values[key] = Merge(baseRec, overRec)
		} else {
			out.values[key] = cloneValue(overVal)
		}
	}
	return out
}

// MergeAll folds layers left to right, so later layers win.
// Nil layers are skipped.
func MergeAll(layers ...*Record) *Record {
	out := New()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		out = Merge(out, layer)
	}
	return out
}
