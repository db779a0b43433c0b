package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headerCaser = cases.Upper(language.English)

// writeTable renders v as a two-column FIELD/VALUE table, with nested
// structures flattened into dotted paths. Useful for terminal viewing;
// JSON or YAML are the formats for machine consumption.
func writeTable(out io.Writer, v any) error {
	// Round-trip through JSON to get a uniform map/slice/scalar tree.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to flatten for table output: %w", err)
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("failed to flatten for table output: %w", err)
	}

	rows := map[string]string{}
	flatten("", tree, rows)

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", headerCaser.String("field"), headerCaser.String("value"))
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rows[k])
	}
	return tw.Flush()
}

func flatten(prefix string, node any, rows map[string]string) {
	switch t := node.(type) {
	case map[string]any:
		for k, child := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, rows)
		}
	case []any:
		for i, child := range t {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, rows)
		}
	case nil:
		rows[prefix] = ""
	default:
		rows[prefix] = fmt.Sprintf("%v", t)
	}
}
