// Package merge reconciles a translated ARB document against its source
// (template) document.
//
// The source decides shape and key order; the translation decides content:
//
//   - Keys are emitted in the source's order, at every object level.
//   - Keys that exist only in the translation are dropped.
//   - Keys missing from the translation (or null there) become null, which
//     marks them as needing translation.
//   - Missing "@" metadata keys are copied from the source instead.
//   - "placeholders" objects are taken from the translation as is; a
//     translator may rename interpolation variables.
package merge

import (
	"github.com/minios-linux/arbsync/arbfile"
)

// PlaceholdersKey names the metadata object whose content always comes
// from the translation.
const PlaceholdersKey = "placeholders"

// Equalize returns target reordered and trimmed to the key set of source.
//
// If source and target are not both objects, target is returned unchanged.
// Neither argument is modified; the result may share subtrees with both.
func Equalize(source, target arbfile.Value) arbfile.Value {
	src, ok := source.AsObject()
	if !ok {
		return target
	}
	tgt, ok := target.AsObject()
	if !ok {
		return target
	}

	result := arbfile.NewMap()
	src.Range(func(key string, srcVal arbfile.Value) bool {
		tgtVal, found := tgt.Get(key)
		switch {
		case found && !tgtVal.IsNull() && key == PlaceholdersKey:
			result.Set(key, tgtVal)
		case found && !tgtVal.IsNull():
			result.Set(key, Equalize(srcVal, tgtVal))
		case arbfile.IsMetaKey(key):
			// Untranslated metadata is still valid metadata.
			result.Set(key, srcVal)
		default:
			result.Set(key, arbfile.NullValue())
		}
		return true
	})

	return arbfile.ObjectValue(result)
}

// Dropped returns the top-level keys of target that Equalize would drop
// because source does not have them, in target order.
func Dropped(source, target arbfile.Value) []string {
	src, ok := source.AsObject()
	if !ok {
		return nil
	}
	tgt, ok := target.AsObject()
	if !ok {
		return nil
	}
	var dropped []string
	tgt.Range(func(key string, _ arbfile.Value) bool {
		if !src.Has(key) {
			dropped = append(dropped, key)
		}
		return true
	})
	return dropped
}
