package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"golru/internal/config"
)

// Encode writes reports to w in the given format (see config.Format*).
func Encode(w io.Writer, format string, reports []*Report) error {
	switch format {
	case config.FormatText, "":
		return encodeText(w, reports)
	case config.FormatTOML:
		doc := struct {
			Reports []*Report `toml:"report"`
		}{Reports: reports}
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode TOML report: %w", err)
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func encodeText(w io.Writer, reports []*Report) error {
	var b strings.Builder
	for _, r := range reports {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "scenario %s (run %s): %s\n", r.Name, r.RunID, status)
		fmt.Fprintf(&b, "  capacity=%d keys=%v hits=%d misses=%d evictions=%d\n",
			r.Capacity, r.Keys, r.Stats.Hits, r.Stats.Misses, r.Stats.Evictions)
		for _, st := range r.Steps {
			fmt.Fprintf(&b, "  %3d %-11s %-8s", st.Index, st.Op, st.Key)
			switch st.Op {
			case OpGet, OpPeek:
				if st.Hit {
					fmt.Fprintf(&b, " -> %q", st.Value)
				} else {
					b.WriteString(" -> miss")
				}
			case OpSave:
				fmt.Fprintf(&b, " = %q", st.Value)
			}
			if len(st.Evicted) > 0 {
				fmt.Fprintf(&b, " evicted=%v", st.Evicted)
			}
			fmt.Fprintf(&b, " keys=%v\n", st.Keys)
		}
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  FAIL %s\n", f)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
