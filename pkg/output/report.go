package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/strata/pkg/compose"
	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/matrix"
	"github.com/arthur-debert/strata/pkg/output/styles"
)

// Renderer writes engine results in the selected format
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer creates a renderer. FormatAuto resolves against the writer
// when it is a terminal file, otherwise falls back to plain text.
func NewRenderer(w io.Writer, format Format) *Renderer {
	if format == FormatAuto {
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		} else {
			format = FormatText
		}
	}
	return &Renderer{w: w, format: format}
}

// styled renders text through a named style in terminal mode and returns
// it untouched otherwise
func (r *Renderer) styled(style, text string) string {
	if r.format != FormatTerminal {
		return text
	}
	return styles.GetStyle(style).Render(text)
}

// RenderTree summarizes a composed tree and where it was written
func (r *Renderer) RenderTree(tree *compose.RenderedTree, dest string) error {
	if r.format == FormatJSON {
		type jsonFile struct {
			Path string `json:"path"`
			Size int    `json:"size"`
		}
		payload := struct {
			Dest  string     `json:"dest,omitempty"`
			Files []jsonFile `json:"files"`
			Dirs  []string   `json:"dirs,omitempty"`
		}{Dest: dest, Dirs: tree.Dirs}
		for _, f := range tree.Files {
			payload.Files = append(payload.Files, jsonFile{Path: f.Path, Size: len(f.Content)})
		}
		return r.writeJSON(payload)
	}

	if dest != "" {
		fmt.Fprintln(r.w, r.styled("Header", fmt.Sprintf("Project written to %s", dest)))
	}
	for _, d := range tree.Dirs {
		fmt.Fprintf(r.w, "  %s\n", r.styled("Muted", d+"/"))
	}
	for _, f := range tree.Files {
		fmt.Fprintf(r.w, "  %s\n", r.styled("FilePath", f.Path))
	}
	fmt.Fprintln(r.w, r.styled("Success",
		fmt.Sprintf("%d files, %d directories", len(tree.Files), len(tree.Dirs))))
	return nil
}

// RenderConfigs lists enumerated configurations one per line by their
// canonical keys
func (r *Renderer) RenderConfigs(configs []config.Config) error {
	if r.format == FormatJSON {
		payload := make([]map[string]string, 0, len(configs))
		for _, c := range configs {
			entry := make(map[string]string, c.Len())
			for _, name := range c.Names() {
				v, _ := c.Get(name)
				entry[name] = v.Text()
			}
			payload = append(payload, entry)
		}
		return r.writeJSON(payload)
	}

	for _, c := range configs {
		fmt.Fprintln(r.w, r.styled("ConfigKey", c.Key()))
	}
	fmt.Fprintln(r.w, r.styled("Muted", fmt.Sprintf("%d legal configurations", len(configs))))
	return nil
}

// RenderReport prints a matrix validation report: failures first with
// their errors, then the overall tally
func (r *Renderer) RenderReport(report *matrix.Report) error {
	if r.format == FormatJSON {
		type jsonOutcome struct {
			Configuration string `json:"configuration"`
			Files         int    `json:"files"`
			Error         string `json:"error,omitempty"`
		}
		payload := make([]jsonOutcome, 0, len(report.Outcomes))
		for _, o := range report.Outcomes {
			entry := jsonOutcome{Configuration: o.Config.Key(), Files: o.Files}
			if o.Err != nil {
				entry.Error = o.Err.Error()
			}
			payload = append(payload, entry)
		}
		return r.writeJSON(payload)
	}

	failures := report.Failures()
	for _, f := range failures {
		fmt.Fprintf(r.w, "%s %s\n", r.styled("Error", "FAIL"), r.styled("ConfigKey", f.Config.Key()))
		fmt.Fprintf(r.w, "  %s\n", f.Err.Error())
	}

	total := len(report.Outcomes)
	if report.OK() {
		fmt.Fprintln(r.w, r.styled("Success",
			fmt.Sprintf("All %d configurations compose cleanly", total)))
	} else {
		fmt.Fprintln(r.w, r.styled("Error",
			fmt.Sprintf("%d of %d configurations failed", len(failures), total)))
	}
	return nil
}

// RenderLayers lists a layer set in merge order
func (r *Renderer) RenderLayers(set layer.Set) error {
	if r.format == FormatJSON {
		type jsonLayer struct {
			Name     string `json:"name"`
			Priority int    `json:"priority"`
			Entries  int    `json:"entries"`
		}
		payload := make([]jsonLayer, 0, len(set))
		for _, l := range set {
			payload = append(payload, jsonLayer{Name: l.Name, Priority: l.Priority, Entries: len(l.Entries)})
		}
		return r.writeJSON(payload)
	}

	fmt.Fprintf(r.w, "%-10s %-20s %s\n",
		r.styled("TableHeader", "priority"),
		r.styled("TableHeader", "layer"),
		r.styled("TableHeader", "entries"))
	for _, l := range set {
		fmt.Fprintf(r.w, "%-10d %-20s %d\n", l.Priority, l.Name, len(l.Entries))
	}
	return nil
}

// RenderError renders an error message with appropriate styling
func (r *Renderer) RenderError(err error) error {
	if r.format == FormatJSON {
		return r.writeJSON(map[string]string{"error": err.Error()})
	}
	_, werr := fmt.Fprintf(r.w, "%s %s\n", r.styled("Error", "Error:"), err.Error())
	return werr
}

func (r *Renderer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
